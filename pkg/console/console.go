// Package console runs the command task: it takes inputs queued by
// service routines and executes them on the command surface.
package console

import (
	"github.com/golang/glog"

	"github.com/robotalks/irtx/pkg/command"
	fx "github.com/robotalks/irtx/pkg/framework"
)

// DefaultResetDelay lets the reset message drain before restarting.
const DefaultResetDelay = 100

// Console is the command task.
type Console struct {
	Surface    *command.Surface
	Printer    fx.Printer
	Inbox      *Inbox
	Sem        *fx.Semaphore
	IRQ        *fx.Interrupts
	ResetDelay uint32
}

// New creates a Console bound to a scheduler.
func New(s *fx.Scheduler, surface *command.Surface, printer fx.Printer) *Console {
	return &Console{
		Surface:    surface,
		Printer:    printer,
		Inbox:      NewInbox(InboxSize),
		Sem:        s.NewSemaphore(0),
		IRQ:        s.IRQ,
		ResetDelay: DefaultResetDelay,
	}
}

// Receive queues an input and wakes the task. It must run as an interrupt
// service routine, use Deliver from other goroutines.
func (c *Console) Receive(in Input) {
	if !c.Inbox.Push(in) {
		glog.Warningf("%s: inbox full, input dropped", command.TaskTag)
		return
	}
	c.Sem.Signal()
}

// Deliver raises the receive service routine for an input.
func (c *Console) Deliver(in Input) {
	c.IRQ.Raise(func() { c.Receive(in) })
}

// DeliverKey delivers a serial key.
func (c *Console) DeliverKey(key byte) {
	c.Deliver(Input{Key: key})
}

// Exec executes one input.
func (c *Console) Exec(in Input) command.Result {
	var r command.Result
	if in.Cmd != nil {
		r = c.Surface.Exec(*in.Cmd)
	} else {
		r = c.Surface.ExecKey(in.Key)
	}
	r.Print(c.Printer)
	if in.Reply != nil {
		in.Reply(r)
	}
	return r
}

// RunTask implements fx.Task.
func (c *Console) RunTask(tc *fx.TaskContext) error {
	c.Printer.Printf(command.TaskTag, "Starting.")
	for {
		if err := tc.Wait(c.Sem, fx.NoTimeout); err != nil {
			return err
		}
		in, ok := c.Inbox.Pop()
		if !ok || ignored(in) {
			continue
		}
		if r := c.Exec(in); r.Reset {
			if err := tc.Delay(c.ResetDelay); err != nil {
				return err
			}
			glog.Info("reset requested")
			return c.Surface.Reset()
		}
	}
}

// AddToScheduler implements fx.TaskAdder.
func (c *Console) AddToScheduler(s *fx.Scheduler) {
	s.AddTask(command.TaskTag, fx.PrLvCommand, c.RunTask)
}

// ignored drops CR, LF and NUL keys without the "Invalid command" reply.
// Terminals send them after every typed key, remote Cmd inputs never match.
func ignored(in Input) bool {
	if in.Cmd != nil {
		return false
	}
	return in.Key == 0 || in.Key == '\r' || in.Key == '\n'
}
