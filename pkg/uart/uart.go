// Package uart feeds bytes received on the command serial port to the
// command task.
package uart

import (
	"context"
	"flag"
	"io"
	"os"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/tarm/serial"

	fx "github.com/robotalks/irtx/pkg/framework"
)

// Config defines the serial port.
type Config struct {
	// Device is the serial device path, empty to disable.
	Device      string        `toml:"device"`
	Baud        int           `toml:"baud"`
	ReadTimeout time.Duration `toml:"read-timeout-ns"`
}

var defaultConfig = Config{
	Baud:        9600,
	ReadTimeout: 100 * time.Millisecond,
}

func init() {
	if val := os.Getenv("IRTX_SERIAL"); val != "" {
		defaultConfig.Device = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Device, "serial", defaultConfig.Device, "Command serial device, e.g. /dev/ttyUSB0.")
	flag.IntVar(&defaultConfig.Baud, "serial-baud", defaultConfig.Baud, "Command serial baud rate.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Open opens the serial port, 8N1.
func (c *Config) Open() (io.ReadWriteCloser, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        c.Device,
		Baud:        c.Baud,
		ReadTimeout: c.ReadTimeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial %s", c.Device)
	}
	glog.Infof("uart: %s at %d baud", c.Device, c.Baud)
	return port, nil
}

// Reader is a Runnable delivering every byte read from Src.
type Reader struct {
	Src     io.ReadCloser
	Deliver func(byte)
	// Polling treats io.EOF and empty reads as read timeouts, as returned
	// by serial ports with a read timeout.
	Polling bool
}

// Name implements fx.Named.
func (r *Reader) Name() string {
	return "uart"
}

// Run implements fx.Runnable. Src reaching EOF ends delivery but not the
// Runnable, which stays until ctx is canceled.
func (r *Reader) Run(ctx context.Context) error {
	err := fx.RunWithContextCloser(ctx, r.Src, func() error {
		buf := make([]byte, 64)
		for {
			n, err := r.Src.Read(buf)
			for _, b := range buf[:n] {
				r.Deliver(b)
			}
			switch {
			case ctx.Err() != nil:
				return ctx.Err()
			case err == io.EOF && r.Polling:
			case err == io.EOF:
				return nil
			case err != nil:
				return errors.Wrap(err, "uart read")
			}
		}
	})
	if err != nil {
		return err
	}
	glog.Info("uart: input closed")
	<-ctx.Done()
	return ctx.Err()
}
