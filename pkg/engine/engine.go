// Package engine drives frames onto the data port.
package engine

import (
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/irtx/pkg/baud"
	"github.com/robotalks/irtx/pkg/carrier"
	"github.com/robotalks/irtx/pkg/channel"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/frame"
	"github.com/robotalks/irtx/pkg/hw"
)

// TaskName is the name of the transmit task.
const TaskName = "TaskDriver"

// State is the state of the engine.
type State int32

// States.
const (
	Idle State = iota
	Transmitting
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == Transmitting {
		return "transmitting"
	}
	return "idle"
}

// Counter counts completed frames. It wraps at 2^32.
type Counter struct {
	n uint32
}

// Inc counts one frame.
func (c *Counter) Inc() uint32 {
	return atomic.AddUint32(&c.n, 1)
}

// Load returns the count.
func (c *Counter) Load() uint32 {
	return atomic.LoadUint32(&c.n)
}

// Engine transmits the frame repeatedly.
type Engine struct {
	Config    Config
	Channels  []channel.Channel
	Frame     frame.Frame
	Port      hw.Port
	Modulator *carrier.Modulator
	Baud      *baud.Controller
	Mask      *channel.Mask
	Counter   *Counter
	IRQ       *fx.Interrupts
	Printer   fx.Printer

	state int32
}

// New creates an Engine with the default channels and rates.
func New(conf Config, port hw.Port, carrierPort hw.CarrierPort, irq *fx.Interrupts) *Engine {
	chs := channel.Defaults()
	return &Engine{
		Config:    conf,
		Channels:  chs[:],
		Frame:     frame.Build(chs[:]),
		Port:      port,
		Modulator: carrier.NewModulator(carrierPort, carrier.NewSpinPacer(conf.HalfPeriod), chs[:]),
		Baud:      baud.NewDefaultController(),
		Mask:      &channel.Mask{},
		Counter:   &Counter{},
		IRQ:       irq,
		Printer:   fx.NopPrinter{},
	}
}

// State returns the current state.
func (e *Engine) State() State {
	return State(atomic.LoadInt32(&e.state))
}

// FrameCount returns the number of completed frames.
func (e *Engine) FrameCount() uint32 {
	return e.Counter.Load()
}

// TransmitFrame drives all symbols of the frame with interrupt delivery
// masked, so nothing else runs until the frame is complete. The rate and
// the channel mask are sampled once per symbol.
func (e *Engine) TransmitFrame() {
	e.IRQ.Critical(func() {
		atomic.StoreInt32(&e.state, int32(Transmitting))
		for n := frame.Len - 1; n >= 0; n-- {
			e.Port.Write(e.Frame[n])
			e.Modulator.Hold(e.Baud.Cycles(), e.Mask.CarrierGate(e.Channels))
		}
		e.Counter.Inc()
		atomic.StoreInt32(&e.state, int32(Idle))
	})
}

// RunTask implements fx.Task.
func (e *Engine) RunTask(tc *fx.TaskContext) error {
	if e.Config.CPU >= 0 || e.Config.LockMemory {
		if err := hw.PinThread(e.Config.CPU, e.Config.LockMemory); err != nil {
			glog.Warningf("%s: %v", TaskName, err)
		}
	}
	rate := e.Baud.Current()
	e.Printer.Printf(TaskName, "Starting.")
	e.Printer.Printf(TaskName, "  Communicating at %d bps.", rate.BPS)
	glog.Infof("%s: frame %s, %s, idle %d ticks", TaskName, e.Frame, rate, e.Config.IdleTicks)
	idle := uint32(e.Config.IdleTicks)
	if idle == 0 {
		idle = 1
	}
	for {
		e.TransmitFrame()
		if err := tc.Delay(idle); err != nil {
			return err
		}
	}
}

// AddToScheduler implements fx.TaskAdder.
func (e *Engine) AddToScheduler(s *fx.Scheduler) {
	s.AddTask(TaskName, fx.PrLvTransmit, e.RunTask)
}
