package stream

import (
	"context"
	"net"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/remote"
)

// Listener serves remote commands on a stream listener.
type Listener struct {
	Listener net.Listener
	Server   *remote.Server
}

// Listen creates a Listener on a TCP address.
func Listen(addr string, server *remote.Server) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Listener{Listener: ln, Server: server}, nil
}

// Name implements fx.Named.
func (l *Listener) Name() string {
	return "stream:" + l.Listener.Addr().String()
}

// Run implements fx.Runnable.
func (l *Listener) Run(ctx context.Context) error {
	glog.Infof("stream: listening on %s", l.Listener.Addr())
	var wg sync.WaitGroup
	defer wg.Wait()
	return fx.RunWithContextCloser(ctx, l.Listener, func() error {
		for {
			conn, err := l.Listener.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			}
			glog.V(2).Infof("stream: accepted %s", conn.RemoteAddr())
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := l.Server.ServeConn(ctx, New(conn))
				glog.V(2).Infof("stream: %s closed: %v", conn.RemoteAddr(), err)
			}()
		}
	})
}

// Dial connects to a transmitter stream endpoint.
func Dial(ctx context.Context, addr string) (*remote.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return remote.NewConn(New(conn)), nil
}
