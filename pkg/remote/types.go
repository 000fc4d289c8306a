// Package remote carries transmitter commands, replies and status events
// over packet transports (MQTT, WebSocket, length-prefixed streams).
package remote

import (
	"context"

	"github.com/robotalks/irtx/pkg/remote/msgs"
)

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// Meta describes a transmitter to clients.
type Meta struct {
	Description string            `json:"description,omitempty"`
	Version     string            `json:"version,omitempty"`
	Channels    []string          `json:"channels,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
}

// Info identifies a registered transmitter.
type Info struct {
	ID   string `json:"id"`
	Meta Meta   `json:"meta"`
}

// Result represents result of a command.
type Result struct {
	Msg msgs.Message
	Err error
}

// Future is the future of a sent command.
type Future interface {
	ResultChan() <-chan Result
}

// Client is a connection to a transmitter.
type Client interface {
	// DoCommand sends a command.
	DoCommand(msgs.Message) Future
	// OnEvent sets the handler of received events.
	OnEvent(func(msgs.Message))
	// Run runs the connection until the context is canceled.
	Run(context.Context) error
}

// Connector is used by clients to reach transmitters.
type Connector interface {
	// Discover enumerates registered transmitters.
	Discover(context.Context) ([]Info, error)
	// Connect connects to the specified transmitter.
	Connect(context.Context, string) (Client, error)
}

// Do sends a command and waits for the result.
func Do(ctx context.Context, c Client, msg msgs.Message) (msgs.Message, error) {
	select {
	case res := <-c.DoCommand(msg).ResultChan():
		return res.Msg, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
