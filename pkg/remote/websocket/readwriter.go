// Package websocket carries remote packets in WebSocket binary messages.
package websocket

import (
	"context"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/irtx/pkg/remote"
)

// DefaultPath is the HTTP path of the command endpoint.
const DefaultPath = "/irtx"

// ReadWriter implements PacketReadWriter.
type ReadWriter websocket.Conn

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return (*ReadWriter)(conn)
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() (pkt []byte, err error) {
	err = websocket.Message.Receive((*websocket.Conn)(p), &pkt)
	return
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	return websocket.Message.Send((*websocket.Conn)(p), pkt)
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return (*websocket.Conn)(p).Close()
}

// Handler serves remote commands on WebSocket connections.
func Handler(server *remote.Server) http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		err := server.ServeConn(conn.Request().Context(), New(conn))
		glog.V(2).Infof("websocket: %s closed: %v", conn.Request().RemoteAddr, err)
	})
}

// Endpoint is an HTTP server exposing Handler.
type Endpoint struct {
	Server *http.Server
}

// NewEndpoint creates an Endpoint on addr.
func NewEndpoint(addr string, server *remote.Server) *Endpoint {
	mux := http.NewServeMux()
	mux.Handle(DefaultPath, Handler(server))
	return &Endpoint{Server: &http.Server{Addr: addr, Handler: mux}}
}

// Name implements fx.Named.
func (e *Endpoint) Name() string {
	return "websocket:" + e.Server.Addr
}

// Run implements fx.Runnable.
func (e *Endpoint) Run(ctx context.Context) error {
	glog.Infof("websocket: listening on %s%s", e.Server.Addr, DefaultPath)
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		e.Server.Close()
		<-errCh
		return ctx.Err()
	}
}

// Dial connects to a transmitter WebSocket endpoint, e.g.
// ws://host:port/irtx.
func Dial(url string) (*remote.Conn, error) {
	conn, err := websocket.Dial(url, "", "http://localhost/")
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return remote.NewConn(New(conn)), nil
}
