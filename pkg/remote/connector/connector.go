// Package connector configures how clients reach transmitters.
package connector

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/robotalks/irtx/pkg/remote"
	"github.com/robotalks/irtx/pkg/remote/mqtt"
	"github.com/robotalks/irtx/pkg/remote/stream"
	"github.com/robotalks/irtx/pkg/remote/websocket"
)

// Config provides common options to setup Connectors.
type Config struct {
	// ID is the transmitter to connect.
	ID string

	// URL locates transmitters, one of
	//   mqtt://host:port/topic-prefix  (registry, supports discovery)
	//   ws://host:port/irtx            (a single transmitter over WebSocket)
	//   irtx://host:port               (a single transmitter over TCP)
	URL string
}

var defaultConfig = Config{
	URL: "mqtt://localhost:1883/irtx/",
}

func init() {
	if val := os.Getenv("IRTX_ID"); val != "" {
		defaultConfig.ID = val
	}
	if val := os.Getenv("IRTX_MQTT_URL"); val != "" {
		defaultConfig.URL = val
	}
	if val := os.Getenv("IRTX_URL"); val != "" {
		defaultConfig.URL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.ID, "id", defaultConfig.ID, "Transmitter ID to connect.")
	flag.StringVar(&defaultConfig.URL, "url", defaultConfig.URL, "Transmitter registry or endpoint URL.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewConnector creates a Connector using current config.
func (c *Config) NewConnector() (remote.Connector, error) {
	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}
	switch parsedURL.Scheme {
	case "mqtt", "mqtts", "ssl":
		if parsedURL.Scheme == "mqtts" {
			parsedURL.Scheme = "ssl"
		}
		return mqtt.NewConnector(parsedURL.String())
	case "ws", "wss":
		return &Direct{URL: parsedURL, Dial: func(ctx context.Context) (remote.Client, error) {
			return websocket.Dial(c.URL)
		}}, nil
	case "irtx":
		return &Direct{URL: parsedURL, Dial: func(ctx context.Context) (remote.Client, error) {
			return stream.Dial(ctx, parsedURL.Host)
		}}, nil
	default:
		return nil, fmt.Errorf("unknown URL scheme: %q", parsedURL.Scheme)
	}
}

// Connect connects the configured transmitter.
func (c *Config) Connect(ctx context.Context) (remote.Client, error) {
	connector, err := c.NewConnector()
	if err != nil {
		return nil, err
	}
	if _, direct := connector.(*Direct); !direct && c.ID == "" {
		return nil, fmt.Errorf("transmitter id must be specified")
	}
	return connector.Connect(ctx, c.ID)
}

// Direct connects a single transmitter endpoint.
type Direct struct {
	URL  *url.URL
	Dial func(context.Context) (remote.Client, error)
}

// ID identifies the endpoint by its host.
func (d *Direct) ID() string {
	return strings.Replace(d.URL.Host, ":", "-", -1)
}

// Discover implements remote.Connector.
func (d *Direct) Discover(ctx context.Context) ([]remote.Info, error) {
	return []remote.Info{{ID: d.ID()}}, nil
}

// Connect implements remote.Connector. The id is ignored.
func (d *Direct) Connect(ctx context.Context, id string) (remote.Client, error) {
	return d.Dial(ctx)
}
