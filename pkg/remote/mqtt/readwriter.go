package mqtt

import (
	"context"
	"io"
)

// ReadWriter carries packets over a pair of topics.
type ReadWriter struct {
	Broker   *Broker
	SubTopic string
	PubTopic string

	packetCh chan []byte
	done     chan struct{}
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(b *Broker) *ReadWriter {
	return &ReadWriter{
		Broker:   b,
		packetCh: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForClient sets topics using default convention for clients:
// SubTopic = id/msg
// PubTopic = id/cmd
func (p *ReadWriter) ForClient(id string) *ReadWriter {
	return p.WithTopics(Topic(id, MsgTopic), Topic(id, CmdTopic))
}

// ForTransmitter sets topics using default convention for transmitters:
// SubTopic = id/cmd
// PubTopic = id/msg
func (p *ReadWriter) ForTransmitter(id string) *ReadWriter {
	return p.WithTopics(Topic(id, CmdTopic), Topic(id, MsgTopic))
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, io.EOF
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	token := p.Broker.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Broker.Sub(p.SubTopic, p.handleMsg)
	<-ctx.Done()
	sub.Close()
	close(p.done)
	return ctx.Err()
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}
