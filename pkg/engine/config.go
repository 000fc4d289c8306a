package engine

import (
	"flag"
	"time"

	"github.com/robotalks/irtx/pkg/carrier"
)

// Config defines the configurations of the transmission engine.
type Config struct {
	// IdleTicks is the gap between frames in scheduler ticks.
	IdleTicks uint `toml:"idle-ticks"`
	// HalfPeriod is the carrier half-period.
	HalfPeriod time.Duration `toml:"half-period-ns"`
	// CPU binds the transmit thread to a CPU, -1 to leave it floating.
	CPU int `toml:"cpu"`
	// LockMemory locks process memory to avoid page faults mid-frame.
	LockMemory bool `toml:"lock-memory"`
}

var defaultConfig = Config{
	IdleTicks:  10,
	HalfPeriod: carrier.DefaultHalfPeriod,
	CPU:        -1,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.UintVar(&defaultConfig.IdleTicks, "idle-ticks", defaultConfig.IdleTicks, "Scheduler ticks between frames.")
	flag.DurationVar(&defaultConfig.HalfPeriod, "half-period", defaultConfig.HalfPeriod, "Carrier half-period.")
	flag.IntVar(&defaultConfig.CPU, "cpu", defaultConfig.CPU, "Bind the transmit thread to a CPU, -1 to disable.")
	flag.BoolVar(&defaultConfig.LockMemory, "mlock", defaultConfig.LockMemory, "Lock process memory.")
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
