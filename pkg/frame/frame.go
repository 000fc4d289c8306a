// Package frame interleaves the framed characters of all channels into the
// symbol table driven onto the shared data port.
package frame

import (
	"fmt"

	"github.com/robotalks/irtx/pkg/channel"
)

// Len is the number of symbols in a frame.
const Len = channel.FrameBits

// Frame is the table of composite port values, one per symbol.
//
// The table is stored stop-first: index Len-1 holds the start symbol and
// index 0 the stop symbol. The transmit loop walks it from the last index to
// the first, so the start symbol goes on the wire first.
type Frame [Len]byte

// Lane is the contribution of one port line to a frame.
type Lane struct {
	Bit uint
	// Symbols in wire order, each 0 or 1.
	Symbols [Len]byte
}

// ChannelLane is the lane of a channel on its data line.
func ChannelLane(c channel.Channel) Lane {
	return Lane{Bit: c.DataBit, Symbols: c.Bits()}
}

// FramedLane is a port line carrying a fixed framed character.
func FramedLane(bit uint, payload byte) Lane {
	return Lane{Bit: bit, Symbols: channel.Framed(payload)}
}

// ConstLane is a port line held at a fixed level.
func ConstLane(bit uint, level byte) Lane {
	l := Lane{Bit: bit}
	for n := range l.Symbols {
		l.Symbols[n] = level & 1
	}
	return l
}

// FixedLanes returns the lanes of the port lines not used by any channel.
func FixedLanes() []Lane {
	return []Lane{
		FramedLane(4, 'U'),
		FramedLane(5, 0),
		ConstLane(6, 1),
		FramedLane(7, 0),
	}
}

// Encode builds a frame from lanes. It is a pure function of its input.
func Encode(lanes ...Lane) (f Frame) {
	for _, l := range lanes {
		for n, sym := range l.Symbols {
			if sym != 0 {
				f[Len-1-n] |= 1 << l.Bit
			}
		}
	}
	return
}

// Build encodes the channels together with the fixed lanes.
func Build(channels []channel.Channel) Frame {
	lanes := FixedLanes()
	for _, c := range channels {
		lanes = append(lanes, ChannelLane(c))
	}
	return Encode(lanes...)
}

// Default is the frame of the default channels.
func Default() Frame {
	chs := channel.Defaults()
	return Build(chs[:])
}

// Wire returns the symbols in transmission order.
func (f Frame) Wire() []byte {
	out := make([]byte, 0, Len)
	for n := Len - 1; n >= 0; n-- {
		out = append(out, f[n])
	}
	return out
}

// Demux recovers the symbols of one port line in wire order.
func (f Frame) Demux(bit uint) (syms [Len]byte) {
	for n, v := range f.Wire() {
		syms[n] = (v >> bit) & 1
	}
	return
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("% X", f[:])
}
