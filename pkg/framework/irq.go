package framework

import (
	"sync"

	"github.com/golang/glog"
)

// IRQState is the interrupt delivery state saved by Disable.
type IRQState struct {
	masked bool
}

// Interrupts models interrupt delivery for the cooperative scheduler.
//
// Service routines raised from other goroutines (timer tick, byte received)
// run one at a time. While delivery is masked they are deferred in arrival
// order and run when delivery is restored.
type Interrupts struct {
	lock     sync.Mutex
	masked   bool
	pending  []ISR
	deferred uint64
}

// NewInterrupts creates an interrupt controller with delivery enabled.
func NewInterrupts() *Interrupts {
	return &Interrupts{}
}

// Raise delivers an interrupt.
func (i *Interrupts) Raise(isr ISR) {
	i.lock.Lock()
	defer i.lock.Unlock()
	if i.masked {
		i.pending = append(i.pending, isr)
		i.deferred++
		return
	}
	isr()
}

// Disable masks delivery and returns the previous state.
func (i *Interrupts) Disable() IRQState {
	i.lock.Lock()
	s := IRQState{masked: i.masked}
	i.masked = true
	i.lock.Unlock()
	return s
}

// Restore sets delivery back to a state saved by Disable. Routines
// deferred while masked run before Restore returns.
func (i *Interrupts) Restore(s IRQState) {
	i.lock.Lock()
	defer i.lock.Unlock()
	if i.masked = s.masked; i.masked {
		return
	}
	pending := i.pending
	i.pending = nil
	if len(pending) > 0 {
		glog.V(4).Infof("irq: delivering %d deferred", len(pending))
	}
	for _, isr := range pending {
		isr()
	}
}

// Critical runs fn with delivery masked and always restores the previous
// state on exit.
func (i *Interrupts) Critical(fn func()) {
	s := i.Disable()
	defer i.Restore(s)
	fn()
}

// Masked reports whether delivery is currently masked.
func (i *Interrupts) Masked() bool {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.masked
}

// Deferred returns the number of routines which had to wait for delivery
// to be restored.
func (i *Interrupts) Deferred() uint64 {
	i.lock.Lock()
	defer i.lock.Unlock()
	return i.deferred
}
