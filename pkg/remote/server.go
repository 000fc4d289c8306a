package remote

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/irtx/pkg/command"
	"github.com/robotalks/irtx/pkg/console"
	"github.com/robotalks/irtx/pkg/remote/msgs"
)

// Deliverer queues inputs for the command task.
type Deliverer interface {
	Deliver(console.Input)
}

// Server executes remote commands on the transmitter. Commands which change
// state are queued to the command task, same as serial keys; status
// queries are answered directly.
type Server struct {
	Inputs  Deliverer
	Surface *command.Surface

	pipesLock  sync.RWMutex
	pipes      map[*Pipe]struct{}
	publishing int32
}

// NewServer creates a Server.
func NewServer(inputs Deliverer, surface *command.Surface) *Server {
	return &Server{
		Inputs:  inputs,
		Surface: surface,
		pipes:   make(map[*Pipe]struct{}),
	}
}

// Attach creates a Pipe handled by the Server. The Pipe receives status
// events until Detach.
func (s *Server) Attach(rw PacketReadWriter) *Pipe {
	p := NewPipe(rw)
	p.Handler = msgs.HandleTypedMsgFunc(func(ctx context.Context, msg msgs.Message, typed *msgs.Typed) error {
		return s.handle(p, msg, typed)
	})
	s.pipesLock.Lock()
	s.pipes[p] = struct{}{}
	s.pipesLock.Unlock()
	return p
}

// Detach stops sending events to the Pipe.
func (s *Server) Detach(p *Pipe) {
	s.pipesLock.Lock()
	delete(s.pipes, p)
	s.pipesLock.Unlock()
}

// ServeConn serves a connection until it fails or the context is canceled.
func (s *Server) ServeConn(ctx context.Context, rw PacketReadWriter) error {
	p := s.Attach(rw)
	defer s.Detach(p)
	return p.Run(ctx)
}

// Conns returns the number of attached connections.
func (s *Server) Conns() int {
	s.pipesLock.RLock()
	defer s.pipesLock.RUnlock()
	return len(s.pipes)
}

// PublishStatus implements heartbeat.Publisher. Events are sent from
// a separate goroutine; a snapshot is skipped while the previous one is
// still being sent.
func (s *Server) PublishStatus(st command.Status) {
	if !atomic.CompareAndSwapInt32(&s.publishing, 0, 1) {
		glog.V(3).Info("remote: status publishing in progress, skipped")
		return
	}
	msg := s.statusMsg(st)
	s.pipesLock.RLock()
	pipes := make([]*Pipe, 0, len(s.pipes))
	for p := range s.pipes {
		pipes = append(pipes, p)
	}
	s.pipesLock.RUnlock()
	go func() {
		defer atomic.StoreInt32(&s.publishing, 0)
		for _, p := range pipes {
			if err := p.Publish(msg); err != nil {
				glog.Warningf("remote: publish status error: %v", err)
			}
		}
	}()
}

func (s *Server) statusMsg(st command.Status) *msgs.Status {
	return &msgs.Status{
		Frames:  st.Frames,
		Bps:     uint32(st.Rate.BPS),
		Enabled: uint32(st.Enabled),
		Version: s.Surface.Version(),
	}
}

func (s *Server) handle(p *Pipe, msg msgs.Message, typed *msgs.Typed) error {
	if !typed.IsCommand() || typed.IsReply() {
		return nil
	}
	glog.V(2).Infof("remote: command %x seq %d", typed.TypeId, typed.Sequence)
	in := console.Input{Reply: s.replier(p, typed.Sequence)}
	switch m := msg.(type) {
	case *msgs.Key:
		if len(m.Key) != 1 {
			return p.Reply(msgs.NewCommandErr(command.ErrUnknownCommand), typed.Sequence)
		}
		in.Key = m.Key[0]
	case *msgs.Baud:
		cmd := command.Command{Op: command.OpDecrease}
		if m.Increase {
			cmd.Op = command.OpIncrease
		}
		in.Cmd = &cmd
	case *msgs.Toggle:
		in.Cmd = &command.Command{Op: command.OpToggle, Channel: int(m.Channel)}
	case *msgs.StatusQuery:
		st := s.Surface.Status()
		return p.Reply(&msgs.Result{
			Text:    s.Surface.Version(),
			Frames:  st.Frames,
			Bps:     uint32(st.Rate.BPS),
			Enabled: uint32(st.Enabled),
		}, typed.Sequence)
	default:
		return p.Reply(msgs.NewCommandErr(msgs.ErrUnsupportedCommand), typed.Sequence)
	}
	s.Inputs.Deliver(in)
	return nil
}

// replier sends the reply from a separate goroutine, as Reply is called by
// the command task.
func (s *Server) replier(p *Pipe, seq uint32) func(command.Result) {
	return func(r command.Result) {
		reply := s.ResultMsg(r)
		go func() {
			if err := p.Reply(reply, seq); err != nil {
				glog.Warningf("remote: reply seq %d error: %v", seq, err)
			}
		}()
	}
}

// ResultMsg converts a command result to the reply message.
func (s *Server) ResultMsg(r command.Result) msgs.Message {
	if r.Err != nil {
		return msgs.NewCommandErrFromMsg(r.Text)
	}
	st := s.Surface.Status()
	m := &msgs.Result{
		Text:    r.Text,
		Frames:  st.Frames,
		Bps:     uint32(st.Rate.BPS),
		Enabled: uint32(st.Enabled),
		Reset_:  r.Reset,
	}
	if r.Command.Op == command.OpCount {
		m.Frames = r.Count
	}
	return m
}
