package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInterruptsDeliverImmediately(t *testing.T) {
	irq := NewInterrupts()
	n := 0
	irq.Raise(func() { n++ })
	require.Equal(t, 1, n)
	require.Equal(t, uint64(0), irq.Deferred())
}

func TestInterruptsDeferredInOrder(t *testing.T) {
	irq := NewInterrupts()
	var trace []int
	state := irq.Disable()
	require.True(t, irq.Masked())
	for i := 0; i < 3; i++ {
		i := i
		irq.Raise(func() { trace = append(trace, i) })
	}
	require.Empty(t, trace)
	irq.Restore(state)
	require.False(t, irq.Masked())
	require.Equal(t, []int{0, 1, 2}, trace)
	require.Equal(t, uint64(3), irq.Deferred())
}

func TestInterruptsNested(t *testing.T) {
	irq := NewInterrupts()
	n := 0
	outer := irq.Disable()
	inner := irq.Disable()
	irq.Raise(func() { n++ })
	irq.Restore(inner)
	require.True(t, irq.Masked())
	require.Equal(t, 0, n)
	irq.Restore(outer)
	require.Equal(t, 1, n)
}

func TestCriticalHoldsTicks(t *testing.T) {
	s := NewScheduler(nil)
	s.IRQ.Critical(func() {
		s.IRQ.Raise(s.Tick)
		s.IRQ.Raise(s.Tick)
		require.Equal(t, uint32(0), s.Ticks())
	})
	require.Equal(t, uint32(2), s.Ticks())
}

func TestTickerRaisesTicks(t *testing.T) {
	s := NewScheduler(nil)
	ticker := s.NewTicker()
	ticker.Period = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ticker.Run(ctx) }()
	deadline := time.Now().Add(5 * time.Second)
	for s.Ticks() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	cancel()
	require.Equal(t, context.Canceled, <-done)
	require.True(t, s.Ticks() >= 3)
}
