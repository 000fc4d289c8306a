// Package hw abstracts the output ports driven by the transmitter.
package hw

// Port is the 8-bit parallel data output port.
type Port interface {
	Write(v byte)
}

// CarrierPort holds the carrier lines.
type CarrierPort interface {
	// Toggle inverts the lines set in mask.
	Toggle(mask byte)
}

// Pin is a single output line, e.g. the heartbeat LED.
type Pin interface {
	Set(on bool)
	Toggle()
}

// Null discards all output.
type Null struct{}

// Write implements Port.
func (Null) Write(byte) {}

// Toggle implements CarrierPort.
func (Null) Toggle(byte) {}

// NullPin discards all output.
type NullPin struct{}

// Set implements Pin.
func (NullPin) Set(bool) {}

// Toggle implements Pin.
func (NullPin) Toggle() {}

// Unconnected marks a port line without a physical pin.
const Unconnected = -1
