package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/carrier"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/hw"
)

var wireOrder = []byte{0x40, 0x5A, 0x46, 0x5C, 0x49, 0x55, 0x43, 0x5F, 0x40, 0xFF}

func newTestEngine(irq *fx.Interrupts, port hw.Port, carrierPort hw.CarrierPort) *Engine {
	e := New(*NewConfig(), port, carrierPort, irq)
	e.Modulator = carrier.NewModulator(carrierPort, carrier.NoPacer{}, e.Channels)
	return e
}

type hookPort struct {
	hw.Port
	hook func(n int)
	n    int
}

func (p *hookPort) Write(v byte) {
	p.Port.Write(v)
	p.hook(p.n)
	p.n++
}

type printLog struct {
	lock  sync.Mutex
	lines []string
}

func (l *printLog) Printf(tag, format string, args ...interface{}) {
	l.lock.Lock()
	l.lines = append(l.lines, tag+": "+fmt.Sprintf(format, args...))
	l.lock.Unlock()
}

func TestTransmitFrame(t *testing.T) {
	rec := hw.NewRecorder()
	e := newTestEngine(fx.NewInterrupts(), rec, rec)
	e.TransmitFrame()

	require.Equal(t, wireOrder, rec.Values())
	require.Equal(t, uint32(1), e.FrameCount())
	require.Equal(t, Idle, e.State())
	for _, sym := range rec.Symbols() {
		for _, c := range e.Channels {
			require.Equal(t, uint32(32), sym.Toggles[c.CarrierBit], "symbol %#x channel %d", sym.Value, c.ID)
		}
	}
	for _, c := range e.Channels {
		require.Equal(t, uint32(320), rec.Toggles(c.CarrierBit))
	}
	for _, line := range []uint{0, 2, 4, 6} {
		require.Equal(t, uint32(0), rec.Toggles(line))
	}
	require.Equal(t, byte(0), rec.Level())
}

func TestDisabledChannelSilencesCarrierOnly(t *testing.T) {
	rec := hw.NewRecorder()
	e := newTestEngine(fx.NewInterrupts(), rec, rec)
	e.TransmitFrame()
	enabled := rec.Values()

	rec.Reset()
	_, err := e.Mask.Toggle(0)
	require.NoError(t, err)
	e.TransmitFrame()
	require.Equal(t, enabled, rec.Values())
	require.Equal(t, uint32(0), rec.Toggles(e.Channels[0].CarrierBit))
	for _, c := range e.Channels[1:] {
		require.Equal(t, uint32(320), rec.Toggles(c.CarrierBit))
	}

	rec.Reset()
	_, err = e.Mask.Toggle(0)
	require.NoError(t, err)
	e.TransmitFrame()
	require.Equal(t, uint32(320), rec.Toggles(e.Channels[0].CarrierBit))
	require.Equal(t, uint32(3), e.FrameCount())
}

func TestCounterCountsFrames(t *testing.T) {
	e := newTestEngine(fx.NewInterrupts(), hw.Null{}, hw.Null{})
	for n := uint32(1); n <= 25; n++ {
		e.TransmitFrame()
		require.Equal(t, n, e.FrameCount())
	}
}

func TestCounterWraps(t *testing.T) {
	c := &Counter{n: ^uint32(0)}
	require.Equal(t, uint32(0), c.Inc())
}

func TestTransmitFrameMasksInterrupts(t *testing.T) {
	s := fx.NewScheduler(nil)
	rec := hw.NewRecorder()
	var masked []bool
	var ticks []uint32
	port := &hookPort{Port: rec, hook: func(int) {
		s.IRQ.Raise(s.Tick)
		masked = append(masked, s.IRQ.Masked())
		ticks = append(ticks, s.Ticks())
	}}
	e := newTestEngine(s.IRQ, port, rec)
	e.TransmitFrame()

	require.Len(t, masked, 10)
	for n := range masked {
		require.True(t, masked[n])
		require.Equal(t, uint32(0), ticks[n])
	}
	require.False(t, s.IRQ.Masked())
	require.Equal(t, uint32(10), s.Ticks())
}

func TestRateChangeAppliesPerSymbol(t *testing.T) {
	rec := hw.NewRecorder()
	var e *Engine
	port := &hookPort{Port: rec, hook: func(n int) {
		if n == 4 {
			_, err := e.Baud.Increase()
			require.NoError(t, err)
		}
	}}
	e = newTestEngine(fx.NewInterrupts(), port, rec)
	e.TransmitFrame()
	line := e.Channels[0].CarrierBit
	for n, sym := range rec.Symbols() {
		if n < 4 {
			require.Equal(t, uint32(32), sym.Toggles[line])
		} else {
			require.Equal(t, uint32(16), sym.Toggles[line])
		}
	}
	require.Equal(t, wireOrder, rec.Values())
}

func TestRunTask(t *testing.T) {
	errStop := errors.New("stop")
	s := fx.NewScheduler(nil)
	rec := hw.NewRecorder()
	e := newTestEngine(s.IRQ, rec, rec)
	e.Config.IdleTicks = 1
	var printer printLog
	e.Printer = &printer
	s.Add(e)
	s.AddTask("observer", fx.PrLvLow, func(tc *fx.TaskContext) error {
		for e.FrameCount() < 3 {
			if err := tc.Delay(1); err != nil {
				return err
			}
		}
		return errStop
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ticker := s.NewTicker()
	ticker.Period = time.Millisecond
	go ticker.Run(ctx)
	require.Equal(t, errStop, s.Run(ctx))
	require.True(t, e.FrameCount() >= 3)
	require.Equal(t, []string{
		"TaskDriver: Starting.",
		"TaskDriver:   Communicating at 2400 bps.",
	}, printer.lines)
	values := rec.Values()
	require.Equal(t, 0, len(values)%10)
	for n := 0; n < len(values); n += 10 {
		require.Equal(t, wireOrder, values[n:n+10])
	}
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "transmitting", Transmitting.String())
}
