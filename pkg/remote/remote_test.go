package remote

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/baud"
	"github.com/robotalks/irtx/pkg/channel"
	"github.com/robotalks/irtx/pkg/command"
	"github.com/robotalks/irtx/pkg/console"
	"github.com/robotalks/irtx/pkg/remote/msgs"
)

type chanRW struct {
	in   <-chan []byte
	out  chan<- []byte
	done chan struct{}
	once *sync.Once
}

func newChanPair() (*chanRW, *chanRW) {
	a, b := make(chan []byte), make(chan []byte)
	done, once := make(chan struct{}), &sync.Once{}
	return &chanRW{in: a, out: b, done: done, once: once},
		&chanRW{in: b, out: a, done: done, once: once}
}

func (c *chanRW) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-c.in:
		return pkt, nil
	case <-c.done:
		return nil, io.EOF
	}
}

func (c *chanRW) WritePacket(pkt []byte) error {
	select {
	case c.out <- pkt:
		return nil
	case <-c.done:
		return io.ErrClosedPipe
	}
}

func (c *chanRW) Close() error {
	c.once.Do(func() { close(c.done) })
	return nil
}

type frameCount uint32

func (c frameCount) FrameCount() uint32 { return uint32(c) }

// execInputs executes inputs immediately, in place of the command task.
type execInputs struct {
	surface *command.Surface
	drop    bool
}

func (e *execInputs) Deliver(in console.Input) {
	if e.drop {
		return
	}
	var r command.Result
	if in.Cmd != nil {
		r = e.surface.Exec(*in.Cmd)
	} else {
		r = e.surface.ExecKey(in.Key)
	}
	in.Reply(r)
}

func newSurface() *command.Surface {
	chs := channel.Defaults()
	return &command.Surface{
		Frames:   frameCount(12),
		Baud:     baud.NewDefaultController(),
		Mask:     &channel.Mask{},
		Channels: chs[:],
	}
}

type fixture struct {
	server *Server
	conn   *Conn
	cancel func()
	done   chan struct{}
}

func newFixture(t *testing.T, inputs *execInputs, expiration time.Duration) *fixture {
	srvRW, cliRW := newChanPair()
	f := &fixture{
		server: NewServer(inputs, inputs.surface),
		conn:   NewConn(cliRW),
		done:   make(chan struct{}),
	}
	f.conn.Expiration = expiration
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	go func() {
		defer close(f.done)
		f.server.ServeConn(ctx, srvRW)
	}()
	go f.conn.Run(ctx)
	return f
}

func (f *fixture) close() {
	f.cancel()
	<-f.done
}

func (f *fixture) do(t *testing.T, msg msgs.Message) (msgs.Message, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return Do(ctx, f.conn, msg)
}

func TestServerCommands(t *testing.T) {
	surface := newSurface()
	f := newFixture(t, &execInputs{surface: surface}, time.Second)
	defer f.close()

	reply, err := f.do(t, &msgs.Toggle{Channel: 0})
	require.NoError(t, err)
	res := reply.(*msgs.Result)
	require.Equal(t, "C3: Carrier wave for 'x' toggled", res.Text)
	require.Equal(t, uint32(0x0e), res.Enabled)
	require.False(t, surface.ChannelEnabled(0))

	reply, err = f.do(t, &msgs.Baud{Increase: true})
	require.NoError(t, err)
	require.Equal(t, uint32(4800), reply.(*msgs.Result).Bps)

	_, err = f.do(t, &msgs.Baud{Increase: true})
	require.Error(t, err)
	require.Equal(t, "Baud rate cannot go beyond 4800 bps.", err.Error())

	reply, err = f.do(t, &msgs.Key{Key: "C"})
	require.NoError(t, err)
	require.Equal(t, uint32(12), reply.(*msgs.Result).Frames)

	_, err = f.do(t, &msgs.Key{Key: "#"})
	require.EqualError(t, err, command.InvalidText)

	_, err = f.do(t, &msgs.Key{})
	require.EqualError(t, err, command.ErrUnknownCommand.Error())

	reply, err = f.do(t, &msgs.Key{Key: "r"})
	require.NoError(t, err)
	require.True(t, reply.(*msgs.Result).Reset_)

	reply, err = f.do(t, &msgs.StatusQuery{})
	require.NoError(t, err)
	res = reply.(*msgs.Result)
	require.Equal(t, command.Version, res.Text)
	require.Equal(t, uint32(4800), res.Bps)
	require.Equal(t, uint32(12), res.Frames)
}

func TestServerUnknownCommand(t *testing.T) {
	srvRW, cliRW := newChanPair()
	s := NewServer(&execInputs{surface: newSurface()}, newSurface())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.ServeConn(ctx, srvRW)

	cli := NewPipe(cliRW)
	require.NoError(t, cliRW.WritePacket([]byte{0xff, 0xff}))
	require.NoError(t, cli.Send(&msgs.Typed{TypeId: msgs.GroupTransmit | 0x0100, Sequence: 7}))
	pkt, err := cliRW.ReadPacket()
	require.NoError(t, err)
	typed, err := msgs.DecodeTyped(pkt)
	require.NoError(t, err)
	require.Equal(t, msgs.CommandErrTypeID, typed.TypeId)
	require.Equal(t, uint32(7), typed.Sequence)

	require.NoError(t, cli.Reply(&msgs.CommandOK{}, 8))
	require.NoError(t, cli.Request(&msgs.StatusQuery{}, 9))
	pkt, err = cliRW.ReadPacket()
	require.NoError(t, err)
	typed, err = msgs.DecodeTyped(pkt)
	require.NoError(t, err)
	require.Equal(t, msgs.ResultTypeID, typed.TypeId)
	require.Equal(t, uint32(9), typed.Sequence)
}

func TestPipeChecksKind(t *testing.T) {
	_, cliRW := newChanPair()
	p := NewPipe(cliRW)
	require.Error(t, p.Request(&msgs.CommandOK{}, 1))
	require.Error(t, p.Reply(&msgs.StatusQuery{}, 1))
	require.Error(t, p.Publish(&msgs.StatusQuery{}))
	require.Error(t, p.Request(&msgs.Status{}, 1))
}

func TestPublishStatus(t *testing.T) {
	surface := newSurface()
	f := newFixture(t, &execInputs{surface: surface}, time.Second)
	defer f.close()

	events := make(chan msgs.Message, 1)
	f.conn.OnEvent(func(msg msgs.Message) { events <- msg })
	for f.server.Conns() == 0 {
		time.Sleep(time.Millisecond)
	}

	surface.ToggleChannel(3)
	f.server.PublishStatus(surface.Status())
	select {
	case msg := <-events:
		st := msg.(*msgs.Status)
		require.Equal(t, uint32(12), st.Frames)
		require.Equal(t, uint32(2400), st.Bps)
		require.Equal(t, uint32(0x07), st.Enabled)
		require.Equal(t, command.Version, st.Version)
	case <-time.After(5 * time.Second):
		t.Fatal("no status event")
	}
}

func TestCommandExpiration(t *testing.T) {
	f := newFixture(t, &execInputs{surface: newSurface(), drop: true}, 10*time.Millisecond)
	defer f.close()
	_, err := f.do(t, &msgs.Key{Key: "c"})
	require.Equal(t, context.DeadlineExceeded, err)
}
