// Package channel defines the four fixed transmit channels and the runtime
// mask enabling their carriers.
package channel

import (
	"errors"
	"fmt"
)

// Count is the number of channels.
const Count = 4

// Framing of a single character.
const (
	StartBits = 1
	DataBits  = 8
	StopBits  = 1
	FrameBits = StartBits + DataBits + StopBits
)

// ErrInvalidID indicates a channel index out of range.
var ErrInvalidID = errors.New("invalid channel")

// Channel is one transmit channel. All fields are fixed at build time.
type Channel struct {
	ID      int
	Payload byte
	// DataBit is the line on the data port carrying this channel.
	DataBit uint
	// CarrierBit is the line on the carrier port gating this channel.
	CarrierBit uint
}

// Bits returns the framed symbol sequence in wire order: a start bit of 0,
// the payload LSB first, then a stop bit of 1.
func (c Channel) Bits() [FrameBits]byte {
	return Framed(c.Payload)
}

// String implements fmt.Stringer.
func (c Channel) String() string {
	return fmt.Sprintf("ch%d(%q)", c.ID, c.Payload)
}

// Framed frames a character into FrameBits symbols of value 0 or 1.
func Framed(payload byte) (bits [FrameBits]byte) {
	for n := 0; n < DataBits; n++ {
		bits[StartBits+n] = (payload >> uint(n)) & 1
	}
	bits[FrameBits-1] = 1
	return
}

// Defaults returns the channel table.
func Defaults() [Count]Channel {
	return [Count]Channel{
		{ID: 0, Payload: 'x', DataBit: 0, CarrierBit: 3},
		{ID: 1, Payload: 'c', DataBit: 1, CarrierBit: 1},
		{ID: 2, Payload: 'V', DataBit: 2, CarrierBit: 7},
		{ID: 3, Payload: 'M', DataBit: 3, CarrierBit: 5},
	}
}

// ByCarrierLine finds the channel gated by a carrier line.
func ByCarrierLine(channels []Channel, line uint) (Channel, bool) {
	for _, c := range channels {
		if c.CarrierBit == line {
			return c, true
		}
	}
	return Channel{}, false
}
