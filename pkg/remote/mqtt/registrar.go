package mqtt

import (
	"context"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/irtx/pkg/remote"
)

// metaTimeout bounds clearing the meta topic on exit.
const metaTimeout = time.Second

// Registrar registers a transmitter on an MQTT broker and serves the
// commands published to it.
type Registrar struct {
	Broker *Broker
	Info   remote.Info
	Server *remote.Server

	rw *ReadWriter
}

// NewRegistrar creates a Registrar.
func NewRegistrar(brokerURL string, info remote.Info, server *remote.Server) (*Registrar, error) {
	b, err := NewTransmitterBroker(brokerURL, info.ID)
	if err != nil {
		return nil, err
	}
	return &Registrar{
		Broker: b,
		Info:   info,
		Server: server,
		rw:     NewPacketReadWriter(b).ForTransmitter(info.ID),
	}, nil
}

// Name implements fx.Named.
func (r *Registrar) Name() string {
	return "mqtt:" + r.Info.ID
}

// Run implements fx.Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	r.Broker.Connect()
	if err := r.Broker.Announce(r.Info); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.rw.Run(ctx)
	}()
	err := r.Server.ServeConn(ctx, r.rw)
	cancel()
	<-errCh
	if !r.Broker.Withdraw(Topic(r.Info.ID, MetaTopic), metaTimeout) {
		glog.Warningf("mqtt: clear meta of %s timeout", r.Info.ID)
	}
	r.Broker.Close()
	return err
}
