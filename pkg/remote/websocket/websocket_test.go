package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
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

type frameCount uint32

func (c frameCount) FrameCount() uint32 { return uint32(c) }

type execInputs struct {
	surface *command.Surface
}

func (e *execInputs) Deliver(in console.Input) {
	in.Reply(e.surface.Exec(*in.Cmd))
}

func TestHandlerAndDial(t *testing.T) {
	chs := channel.Defaults()
	surface := &command.Surface{
		Frames:   frameCount(0),
		Baud:     baud.NewDefaultController(),
		Mask:     &channel.Mask{},
		Channels: chs[:],
	}
	srv := httptest.NewServer(Handler(remote.NewServer(&execInputs{surface: surface}, surface)))
	defer srv.Close()

	conn, err := Dial("ws" + strings.TrimPrefix(srv.URL, "http"))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	go conn.Run(ctx)

	reply, err := remote.Do(ctx, conn, &msgs.Baud{})
	require.NoError(t, err)
	require.Equal(t, uint32(1200), reply.(*msgs.Result).Bps)
	require.Equal(t, "Baud rate decreased to 1200 bps.", reply.(*msgs.Result).Text)

	reply, err = remote.Do(ctx, conn, &msgs.Toggle{Channel: 2})
	require.NoError(t, err)
	require.Equal(t, uint32(0x0b), reply.(*msgs.Result).Enabled)
}
