// Package baud holds the selectable symbol rates and the current selection.
package baud

import (
	"fmt"
	"sync/atomic"
)

const (
	// CarrierHz is the nominal carrier frequency.
	CarrierHz = 38400
	// MaxBPS is the highest symbol rate at which the carrier and data
	// signals do not interfere.
	MaxBPS = 4800
	// DefaultIndex selects 2400 bps in the default table.
	DefaultIndex = 1
)

// Rate is one row of the rate table.
type Rate struct {
	// Cycles + 1 carrier half-periods make up one symbol.
	Cycles uint32
	BPS    uint32
}

// String implements fmt.Stringer.
func (r Rate) String() string {
	return fmt.Sprintf("%d bps", r.BPS)
}

// CyclesFor computes the cycle count of a rate.
func CyclesFor(bps uint32) uint32 {
	return 2*CarrierHz/bps - 1
}

// NewTable builds a rate table from ascending rates. Rates above MaxBPS
// are rejected.
func NewTable(rates ...uint32) ([]Rate, error) {
	if len(rates) == 0 {
		return nil, fmt.Errorf("empty rate table")
	}
	table := make([]Rate, 0, len(rates))
	for n, bps := range rates {
		switch {
		case bps == 0:
			return nil, fmt.Errorf("invalid rate 0 bps")
		case bps > MaxBPS:
			return nil, fmt.Errorf("rate %d bps exceeds maximum %d bps", bps, MaxBPS)
		case n > 0 && bps <= rates[n-1]:
			return nil, fmt.Errorf("rate %d bps not in ascending order", bps)
		}
		table = append(table, Rate{Cycles: CyclesFor(bps), BPS: bps})
	}
	return table, nil
}

// DefaultTable is {1200, 2400, 4800} bps.
func DefaultTable() []Rate {
	table, err := NewTable(1200, 2400, 4800)
	if err != nil {
		panic(err)
	}
	return table
}

// LimitError is returned when a rate change would leave the table.
type LimitError struct {
	BPS   uint32
	Upper bool
}

// Error implements error.
func (e *LimitError) Error() string {
	if e.Upper {
		return fmt.Sprintf("baud rate cannot go beyond %d bps", e.BPS)
	}
	return fmt.Sprintf("baud rate cannot go below %d bps", e.BPS)
}

// Controller holds the current rate. Reads are lock-free so the transmit
// loop can sample the cycle count once per symbol.
type Controller struct {
	table []Rate
	index int32
}

// NewController creates a Controller starting at index.
func NewController(table []Rate, index int) (*Controller, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("empty rate table")
	}
	if index < 0 || index >= len(table) {
		return nil, fmt.Errorf("rate index %d out of range [0, %d)", index, len(table))
	}
	return &Controller{table: table, index: int32(index)}, nil
}

// NewDefaultController starts at 2400 bps.
func NewDefaultController() *Controller {
	c, err := NewController(DefaultTable(), DefaultIndex)
	if err != nil {
		panic(err)
	}
	return c
}

// Increase selects the next faster rate.
func (c *Controller) Increase() (Rate, error) {
	return c.step(1)
}

// Decrease selects the next slower rate.
func (c *Controller) Decrease() (Rate, error) {
	return c.step(-1)
}

func (c *Controller) step(delta int32) (Rate, error) {
	for {
		old := atomic.LoadInt32(&c.index)
		next := old + delta
		if next < 0 || int(next) >= len(c.table) {
			return c.table[old], &LimitError{BPS: c.table[old].BPS, Upper: delta > 0}
		}
		if atomic.CompareAndSwapInt32(&c.index, old, next) {
			return c.table[next], nil
		}
	}
}

// Index returns the current table index.
func (c *Controller) Index() int {
	return int(atomic.LoadInt32(&c.index))
}

// Current returns the current rate.
func (c *Controller) Current() Rate {
	return c.table[c.Index()]
}

// Cycles returns the cycle count of the current rate.
func (c *Controller) Cycles() uint32 {
	return c.Current().Cycles
}

// Table returns a copy of the rate table.
func (c *Controller) Table() []Rate {
	return append([]Rate(nil), c.table...)
}
