// Package carrier generates the square wave gating the channels.
package carrier

import (
	"sort"
	"time"

	"github.com/robotalks/irtx/pkg/channel"
	"github.com/robotalks/irtx/pkg/hw"
)

// DefaultHalfPeriod approximates half a period of the 38.4 kHz carrier.
const DefaultHalfPeriod = 13 * time.Microsecond

// Pacer waits one carrier half-period.
type Pacer interface {
	Wait()
}

// NoPacer returns immediately.
type NoPacer struct{}

// Wait implements Pacer.
func (NoPacer) Wait() {}

// SpinPacer busy-waits on the monotonic clock. Deadlines are chained so
// short overruns are absorbed by the next half-period instead of
// accumulating.
type SpinPacer struct {
	HalfPeriod time.Duration
	next       time.Time
}

// NewSpinPacer creates a SpinPacer.
func NewSpinPacer(halfPeriod time.Duration) *SpinPacer {
	if halfPeriod <= 0 {
		halfPeriod = DefaultHalfPeriod
	}
	return &SpinPacer{HalfPeriod: halfPeriod}
}

// Wait implements Pacer.
func (p *SpinPacer) Wait() {
	now := time.Now()
	if p.next.IsZero() || now.Sub(p.next) > p.HalfPeriod {
		p.next = now
	}
	p.next = p.next.Add(p.HalfPeriod)
	for time.Now().Before(p.next) {
	}
}

// Reset drops the deadline chain, e.g. after an idle gap.
func (p *SpinPacer) Reset() {
	p.next = time.Time{}
}

// Calibrate measures the average half-period achieved by a Pacer over n
// waits.
func Calibrate(p Pacer, n int) time.Duration {
	if n <= 0 {
		return 0
	}
	start := time.Now()
	for i := 0; i < n; i++ {
		p.Wait()
	}
	return time.Since(start) / time.Duration(n)
}

// Modulator toggles the carrier lines while a symbol is held.
type Modulator struct {
	Port  hw.CarrierPort
	Pacer Pacer
	// The carrier lines are toggled in two steps, PairA then PairB.
	PairA byte
	PairB byte
}

// NewModulator creates a Modulator for the carrier lines of channels.
// The lower half of the lines, by line number, forms PairA.
func NewModulator(port hw.CarrierPort, pacer Pacer, channels []channel.Channel) *Modulator {
	lines := make([]uint, 0, len(channels))
	for _, c := range channels {
		lines = append(lines, c.CarrierBit)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i] < lines[j] })
	m := &Modulator{Port: port, Pacer: pacer}
	for n, line := range lines {
		if n < (len(lines)+1)/2 {
			m.PairA |= 1 << line
		} else {
			m.PairB |= 1 << line
		}
	}
	return m
}

// Lines returns all carrier lines.
func (m *Modulator) Lines() byte {
	return m.PairA | m.PairB
}

// Hold keeps the carrier running for cycles+1 half-periods. Lines outside
// gate are left untouched.
func (m *Modulator) Hold(cycles uint32, gate byte) {
	a, b := m.PairA&gate, m.PairB&gate
	for n := uint32(0); n <= cycles; n++ {
		m.Pacer.Wait()
		if a != 0 {
			m.Port.Toggle(a)
		}
		if b != 0 {
			m.Port.Toggle(b)
		}
	}
}
