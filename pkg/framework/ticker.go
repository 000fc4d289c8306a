package framework

import (
	"context"
	"time"
)

// DefaultTickPeriod is the tick period at DefaultTickRate.
const DefaultTickPeriod = time.Second / DefaultTickRate

// Ticker is the periodic timer interrupt source driving all timed waits.
type Ticker struct {
	Period time.Duration
	IRQ    *Interrupts
	ISR    ISR
}

// NewTicker creates a Ticker with the default period.
func NewTicker(irq *Interrupts, isr ISR) *Ticker {
	return &Ticker{Period: DefaultTickPeriod, IRQ: irq, ISR: isr}
}

// Name implements Named.
func (t *Ticker) Name() string {
	return "ticker"
}

// Run implements Runnable.
func (t *Ticker) Run(ctx context.Context) error {
	period := t.Period
	if period <= 0 {
		period = DefaultTickPeriod
	}
	tk := time.NewTicker(period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			t.IRQ.Raise(t.ISR)
		}
	}
}
