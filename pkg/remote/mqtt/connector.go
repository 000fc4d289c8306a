package mqtt

import (
	"context"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/robotalks/irtx/pkg/remote"
)

// Connector implements remote.Connector using MQTT.
type Connector struct {
	DiscoverTimeout time.Duration

	options     *paho.ClientOptions
	topicPrefix string
}

// DefaultDiscoverTimeout defines the default timeout value of discovery.
const DefaultDiscoverTimeout = 500 * time.Millisecond

// NewConnector creates a Connector.
func NewConnector(brokerURL string) (*Connector, error) {
	opts, topicPrefix, err := OptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	return &Connector{
		DiscoverTimeout: DefaultDiscoverTimeout,
		options:         opts,
		topicPrefix:     topicPrefix,
	}, nil
}

// Discover implements remote.Connector.
func (c *Connector) Discover(ctx context.Context) (res []remote.Info, err error) {
	b := NewBroker(c.options, c.topicPrefix)
	b.Connect()
	defer b.Close()
	resCh := make(chan remote.Info, 1)
	b.WatchMeta(func(info remote.Info) {
		select {
		case resCh <- info:
		case <-time.After(time.Second):
		}
	})

	dur := c.DiscoverTimeout
	if dur == 0 {
		dur = DefaultDiscoverTimeout
	}
	timeout := time.After(dur)
	for {
		select {
		case info := <-resCh:
			res = append(res, info)
		case <-timeout:
			return
		case <-ctx.Done():
			err = ctx.Err()
			return
		}
	}
}

// Connect implements remote.Connector.
func (c *Connector) Connect(ctx context.Context, id string) (remote.Client, error) {
	conn := &Conn{
		Broker: NewBroker(c.options, c.topicPrefix),
	}
	conn.rw = NewPacketReadWriter(conn.Broker).ForClient(id)
	conn.Init(conn.rw)
	token := conn.Broker.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	return conn, nil
}

// Conn is a remote.Client over MQTT.
type Conn struct {
	remote.Conn
	Broker *Broker

	rw *ReadWriter
}

// Run implements remote.Client.
func (c *Conn) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.rw.Run(ctx)
	err := c.Conn.Run(ctx)
	c.Broker.Close()
	return err
}
