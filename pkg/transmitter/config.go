package transmitter

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/robotalks/irtx/pkg/engine"
	fx "github.com/robotalks/irtx/pkg/framework"
	"github.com/robotalks/irtx/pkg/hw"
	"github.com/robotalks/irtx/pkg/uart"
)

// Lines is a list of GPIO line numbers, bit n of a port on Lines[n].
type Lines []int

// String implements flag.Value.
func (l *Lines) String() string {
	strs := make([]string, len(*l))
	for n, num := range *l {
		strs[n] = strconv.Itoa(num)
	}
	return strings.Join(strs, ",")
}

// Set implements flag.Value. Empty items are unconnected, e.g. "17,,27".
func (l *Lines) Set(val string) error {
	var lines Lines
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item == "" {
			lines = append(lines, hw.Unconnected)
			continue
		}
		num, err := strconv.Atoi(item)
		if err != nil {
			return fmt.Errorf("invalid gpio line %q", item)
		}
		lines = append(lines, num)
	}
	if len(lines) > 8 {
		return fmt.Errorf("at most 8 lines, got %d", len(lines))
	}
	*l = lines
	return nil
}

// Connected reports whether any line is connected.
func (l Lines) Connected() bool {
	for _, num := range l {
		if num != hw.Unconnected {
			return true
		}
	}
	return false
}

// Config defines the transmitter.
type Config struct {
	// ID identifies the transmitter on remote transports.
	ID          string `toml:"id"`
	Description string `toml:"description"`

	// MQTTURL registers the transmitter on a broker when set,
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string `toml:"mqtt-url"`
	// StreamAddr serves remote commands on TCP when set.
	StreamAddr string `toml:"stream-listen"`
	// WebSocketAddr serves remote commands on WebSocket when set.
	WebSocketAddr string `toml:"websocket-listen"`

	// Stdio uses stdin for commands when no serial device is set.
	Stdio bool `toml:"stdio"`

	TickPeriod time.Duration `toml:"tick-period-ns"`

	DataLines    Lines `toml:"data-lines"`
	CarrierLines Lines `toml:"carrier-lines"`
	LEDLine      int   `toml:"led-line"`
}

var (
	defaultConfig = Config{
		TickPeriod: fx.DefaultTickPeriod,
		LEDLine:    hw.Unconnected,
	}

	configFile string
)

func init() {
	if id, err := machineid.ProtectedID("irtx"); err == nil {
		defaultConfig.ID = id[:12]
	} else {
		glog.V(2).Infof("machine id unavailable: %v", err)
	}
	if val := os.Getenv("IRTX_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("IRTX_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
}

// SetupFlags sets command line flags, including those of the engine and
// the serial port.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "TOML config file, overridden by explicit flags.")
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Transmitter ID.")
	flag.StringVar(&defaultConfig.Description, "desc", defaultConfig.Description, "Transmitter description.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL.")
	flag.StringVar(&defaultConfig.StreamAddr, "listen", defaultConfig.StreamAddr, "TCP address for remote commands.")
	flag.StringVar(&defaultConfig.WebSocketAddr, "ws-listen", defaultConfig.WebSocketAddr, "HTTP address for WebSocket remote commands.")
	flag.BoolVar(&defaultConfig.Stdio, "stdio", defaultConfig.Stdio, "Read commands from stdin without serial device.")
	flag.DurationVar(&defaultConfig.TickPeriod, "tick", defaultConfig.TickPeriod, "Scheduler tick period.")
	flag.Var(&defaultConfig.DataLines, "gpio-data", "GPIO lines of data bits 0-7, comma separated.")
	flag.Var(&defaultConfig.CarrierLines, "gpio-carrier", "GPIO lines of carrier bits 0-7, comma separated.")
	flag.IntVar(&defaultConfig.LEDLine, "gpio-led", defaultConfig.LEDLine, "GPIO line of heartbeat LED.")
	engine.SetupFlags()
	uart.SetupFlags()
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

type fileConfig struct {
	Transmitter *Config        `toml:"transmitter"`
	Engine      *engine.Config `toml:"engine"`
	UART        *uart.Config   `toml:"uart"`
}

// LoadFile overlays a TOML file onto the default configs:
//
//	[transmitter]
//	id = "bench-1"
//	data-lines = [4, 17, 27, 22, 5, 6, 13, 19]
//	[engine]
//	idle-ticks = 10
//	[uart]
//	device = "/dev/ttyUSB0"
func LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open config")
	}
	defer f.Close()
	if err := Decode(f, Default(), engine.Default(), uart.Default()); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}

// Decode overlays TOML onto configs. Keys absent from r are untouched.
func Decode(r io.Reader, conf *Config, engineConf *engine.Config, uartConf *uart.Config) error {
	return toml.NewDecoder(r).DisallowUnknownFields().Decode(&fileConfig{
		Transmitter: conf,
		Engine:      engineConf,
		UART:        uartConf,
	})
}

// ParseFlags parses args. When -config is given, the file is loaded and
// args are parsed again so explicit flags take precedence.
func ParseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if configFile == "" {
		return nil
	}
	if err := LoadFile(configFile); err != nil {
		return err
	}
	return fs.Parse(args)
}
