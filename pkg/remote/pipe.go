package remote

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/remote/msgs"
)

// Pipe carries Typed packets over one PacketReadWriter. Requests and
// replies carry the sequence of the request, status events carry none.
type Pipe struct {
	ReadWriter PacketReadWriter
	Handler    msgs.TypedMsgHandler

	sendLock sync.Mutex
}

// NewPipe creates a Pipe with given PacketReadWriter.
func NewPipe(rw PacketReadWriter) *Pipe {
	return &Pipe{ReadWriter: rw}
}

// Request sends a command request with sequence seq.
func (p *Pipe) Request(msg msgs.Message, seq uint32) error {
	return p.sendAs(msg, seq, func(t *msgs.Typed) bool { return t.IsCommand() && !t.IsReply() })
}

// Reply sends the reply to request seq.
func (p *Pipe) Reply(msg msgs.Message, seq uint32) error {
	return p.sendAs(msg, seq, (*msgs.Typed).IsReply)
}

// Publish sends an event.
func (p *Pipe) Publish(msg msgs.Message) error {
	return p.sendAs(msg, 0, (*msgs.Typed).IsEvent)
}

func (p *Pipe) sendAs(msg msgs.Message, seq uint32, valid func(*msgs.Typed) bool) error {
	typed, err := msgs.TypedFrom(msg)
	if err != nil {
		return err
	}
	if !valid(typed) {
		return errors.Errorf("message type %x not allowed here", typed.TypeId)
	}
	typed.Sequence = seq
	return p.Send(typed)
}

// Send writes a Typed packet. It is safe for concurrent use.
func (p *Pipe) Send(typed *msgs.Typed) error {
	pkt, err := typed.Encode()
	if err != nil {
		return err
	}
	p.sendLock.Lock()
	defer p.sendLock.Unlock()
	return p.ReadWriter.WritePacket(pkt)
}

// Run implements fx.Runnable. It returns when reading fails or the
// context is canceled, and closes the ReadWriter either way.
func (p *Pipe) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, p, func() error {
		return p.receive(ctx)
	})
}

func (p *Pipe) receive(ctx context.Context) error {
	for {
		pkt, err := p.ReadWriter.ReadPacket()
		if err != nil {
			return err
		}
		typed, err := msgs.DecodeTyped(pkt)
		if err != nil {
			glog.Warningf("remote: drop packet of %d bytes: %v", len(pkt), err)
			continue
		}
		msg, err := typed.Decode()
		switch {
		case err == nil:
		case typed.IsCommand() && !typed.IsReply():
			if err = p.Reply(msgs.NewCommandErr(err), typed.Sequence); err != nil {
				return err
			}
			continue
		default:
			glog.V(2).Infof("remote: drop message %x: %v", typed.TypeId, err)
			continue
		}
		if h := p.Handler; h != nil {
			if err = h.HandleTypedMsg(ctx, msg, typed); err != nil {
				return err
			}
		}
	}
}

// Close implements io.Closer.
func (p *Pipe) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
