package stream

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/irtx/pkg/baud"
	"github.com/robotalks/irtx/pkg/channel"
	"github.com/robotalks/irtx/pkg/command"
	"github.com/robotalks/irtx/pkg/console"
	"github.com/robotalks/irtx/pkg/remote"
	"github.com/robotalks/irtx/pkg/remote/msgs"
)

func TestReadWriter(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte("abc")))
	require.NoError(t, rw.WritePacket(nil))
	require.Equal(t, []byte{3, 0, 0, 0, 'a', 'b', 'c', 0, 0, 0, 0}, buf.Bytes())
	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
}

func TestReadPacketTooLarge(t *testing.T) {
	rw := New(bytes.NewBuffer([]byte{0, 0, 0, 1}))
	_, err := rw.ReadPacket()
	require.Error(t, err)
	require.Contains(t, err.Error(), ErrPacketTooLarge.Error())
}

type frameCount uint32

func (c frameCount) FrameCount() uint32 { return uint32(c) }

type execInputs struct {
	surface *command.Surface
}

func (e *execInputs) Deliver(in console.Input) {
	in.Reply(e.surface.ExecKey(in.Key))
}

func TestListenAndDial(t *testing.T) {
	chs := channel.Defaults()
	surface := &command.Surface{
		Frames:   frameCount(3),
		Baud:     baud.NewDefaultController(),
		Mask:     &channel.Mask{},
		Channels: chs[:],
	}
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := &Listener{Listener: ln, Server: remote.NewServer(&execInputs{surface: surface}, surface)}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go l.Run(ctx)

	conn, err := Dial(ctx, ln.Addr().String())
	require.NoError(t, err)
	go conn.Run(ctx)

	reply, err := remote.Do(ctx, conn, &msgs.Key{Key: "c"})
	require.NoError(t, err)
	require.Equal(t, "Counter:  3 signal blocks have been transmitted.", reply.(*msgs.Result).Text)
}
