package engine_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/carrier"
	"github.com/robotalks/irtx/pkg/command"
	"github.com/robotalks/irtx/pkg/console"
	"github.com/robotalks/irtx/pkg/engine"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/hw"
)

type writeHook struct {
	hw.Port
	hook func(n int)
	n    int
}

func (p *writeHook) Write(v byte) {
	p.Port.Write(v)
	p.hook(p.n)
	p.n++
}

func TestKeyReceivedMidFrameDeferred(t *testing.T) {
	s := fx.NewScheduler(nil)
	rec := hw.NewRecorder()
	var c *console.Console
	var queued []int
	var counts []uint32
	port := &writeHook{Port: rec, hook: func(n int) {
		if n == 3 {
			c.DeliverKey('c')
		}
		queued = append(queued, c.Inbox.Len())
		counts = append(counts, c.Sem.Count())
	}}
	e := engine.New(*engine.NewConfig(), port, rec, s.IRQ)
	e.Modulator = carrier.NewModulator(rec, carrier.NoPacer{}, e.Channels)
	c = console.New(s, command.New(e), fx.NopPrinter{})

	e.TransmitFrame()

	require.Len(t, queued, 10)
	for n := range queued {
		require.Equal(t, 0, queued[n])
		require.Equal(t, uint32(0), counts[n])
	}
	require.Equal(t, uint64(1), s.IRQ.Deferred())
	require.Equal(t, 1, c.Inbox.Len())
	require.Equal(t, uint32(1), c.Sem.Count())
	require.Equal(t, uint32(1), e.FrameCount())
	in, ok := c.Inbox.Pop()
	require.True(t, ok)
	require.Equal(t, byte('c'), in.Key)
}
