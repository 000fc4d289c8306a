// Package transmitter assembles the transmitter: the scheduler and its
// tick source, the transmit, command and heartbeat tasks, and the
// serial and remote inputs feeding the command task.
package transmitter

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/irtx/pkg/command"
	"github.com/robotalks/irtx/pkg/console"
	"github.com/robotalks/irtx/pkg/engine"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/heartbeat"
	"github.com/robotalks/irtx/pkg/hw"
	"github.com/robotalks/irtx/pkg/remote"
	"github.com/robotalks/irtx/pkg/remote/mqtt"
	"github.com/robotalks/irtx/pkg/remote/stream"
	"github.com/robotalks/irtx/pkg/remote/websocket"
	"github.com/robotalks/irtx/pkg/uart"
)

// Title is printed on startup.
const Title = "irtx IR Transmitter"

// Devices are the hardware the transmitter drives.
type Devices struct {
	Port    hw.Port
	Carrier hw.CarrierPort
	LED     hw.Pin
	// Input provides command bytes, nil for none.
	Input io.ReadCloser
	// PollInput treats EOF on Input as a read timeout.
	PollInput bool
	// Output receives the console lines.
	Output io.Writer

	closers []io.Closer
}

// Close closes all opened devices.
func (d *Devices) Close() error {
	var errs fx.AggregatedError
	for _, c := range d.closers {
		errs.Add(c.Close())
	}
	d.closers = nil
	return errs.Aggregate()
}

// OpenDevices opens GPIO lines and the serial port from the config.
// Unconfigured devices are replaced by null devices.
func OpenDevices(conf *Config, uartConf *uart.Config) (dev *Devices, err error) {
	dev = &Devices{Port: hw.Null{}, Carrier: hw.Null{}, LED: hw.NullPin{}, Output: os.Stdout}
	defer func() {
		if err != nil {
			dev.Close()
			dev = nil
		}
	}()
	if conf.DataLines.Connected() {
		port, err := hw.OpenGPIOPort(conf.DataLines)
		if err != nil {
			return dev, err
		}
		dev.Port, dev.closers = port, append(dev.closers, port)
	}
	if conf.CarrierLines.Connected() {
		port, err := hw.OpenGPIOCarrier(conf.CarrierLines)
		if err != nil {
			return dev, err
		}
		dev.Carrier, dev.closers = port, append(dev.closers, port)
	}
	if conf.LEDLine != hw.Unconnected {
		pin, err := hw.OpenGPIOPin(conf.LEDLine)
		if err != nil {
			return dev, err
		}
		dev.LED, dev.closers = pin, append(dev.closers, pin)
	}
	switch {
	case uartConf.Device != "":
		port, err := uartConf.Open()
		if err != nil {
			return dev, err
		}
		dev.Input, dev.Output, dev.PollInput = port, port, true
	case conf.Stdio:
		dev.Input = os.Stdin
	}
	return dev, nil
}

// Transmitter is the assembled transmitter.
type Transmitter struct {
	Config    *Config
	IRQ       *fx.Interrupts
	Scheduler *fx.Scheduler
	Ticker    *fx.Ticker
	Engine    *engine.Engine
	Surface   *command.Surface
	Console   *console.Console
	Heartbeat *heartbeat.Task
	Remote    *remote.Server
	Printer   fx.Printer
	Runnables []fx.Runnable
}

// New assembles a Transmitter on devices. Remote endpoints in conf are
// created but not started.
func New(conf *Config, engineConf *engine.Config, dev *Devices) (*Transmitter, error) {
	t := &Transmitter{Config: conf, IRQ: fx.NewInterrupts()}
	t.Scheduler = fx.NewScheduler(t.IRQ)
	t.Ticker = t.Scheduler.NewTicker()
	t.Ticker.Period = conf.TickPeriod

	formatter := console.NewFormatter(dev.Output, t.Scheduler)
	formatter.TickPeriod = t.Ticker.Period
	if formatter.TickPeriod <= 0 {
		formatter.TickPeriod = fx.DefaultTickPeriod
	}
	t.Printer = formatter

	t.Engine = engine.New(*engineConf, dev.Port, dev.Carrier, t.IRQ)
	t.Engine.Printer = t.Printer
	t.Surface = command.New(t.Engine)
	t.Console = console.New(t.Scheduler, t.Surface, t.Printer)
	t.Heartbeat = heartbeat.New(t.Surface, dev.LED, t.Printer)
	t.Remote = remote.NewServer(t.Console, t.Surface)
	t.Heartbeat.Publishers = append(t.Heartbeat.Publishers, t.Remote)
	t.Scheduler.Add(t.Engine, t.Console, t.Heartbeat)

	t.Runnables = append(t.Runnables, t.Ticker, t.Scheduler)
	if dev.Input != nil {
		t.Runnables = append(t.Runnables, &uart.Reader{
			Src:     dev.Input,
			Deliver: t.Console.DeliverKey,
			Polling: dev.PollInput,
		})
	}
	if conf.StreamAddr != "" {
		ln, err := stream.Listen(conf.StreamAddr, t.Remote)
		if err != nil {
			return nil, err
		}
		t.Runnables = append(t.Runnables, ln)
	}
	if conf.WebSocketAddr != "" {
		t.Runnables = append(t.Runnables, websocket.NewEndpoint(conf.WebSocketAddr, t.Remote))
	}
	if conf.MQTTURL != "" {
		if conf.ID == "" {
			return nil, errors.New("transmitter id is required to register on MQTT")
		}
		reg, err := mqtt.NewRegistrar(conf.MQTTURL, t.Info(), t.Remote)
		if err != nil {
			return nil, err
		}
		t.Runnables = append(t.Runnables, reg)
	}
	return t, nil
}

// Info describes the transmitter to remote clients.
func (t *Transmitter) Info() remote.Info {
	info := remote.Info{
		ID: t.Config.ID,
		Meta: remote.Meta{
			Description: t.Config.Description,
			Version:     t.Surface.Version(),
		},
	}
	for _, c := range t.Surface.Channels {
		info.Meta.Channels = append(info.Meta.Channels, string(c.Payload))
	}
	return info
}

// Splash prints the startup banner.
func (t *Transmitter) Splash() {
	t.Printer.Printf("", "main: %s", Title)
	t.Printer.Printf("", "  v%s", t.Surface.Version())
}

// Start prints the banner and starts all Runnables on runner.
func (t *Transmitter) Start(runner *fx.Runner) {
	t.Splash()
	glog.Infof("transmitter %s: frame %s", t.Config.ID, t.Engine.Frame)
	runner.Go(t.Runnables...)
}

// Run runs the transmitter until the context is canceled or a task stops,
// e.g. with fx.ErrReset.
func (t *Transmitter) Run(ctx context.Context) error {
	runner := fx.NewRunnerWith(ctx)
	t.Start(runner)
	return runner.Wait()
}
