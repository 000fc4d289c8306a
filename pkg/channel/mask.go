package channel

import "sync/atomic"

// Mask holds the enabled flag of every channel. The zero value has all
// channels enabled. It is safe for use from any goroutine without locking,
// so the transmit loop never blocks on a command changing it.
type Mask struct {
	disabled uint32
}

// Enabled reports whether channel id is enabled.
func (m *Mask) Enabled(id int) bool {
	if !validID(id) {
		return false
	}
	return atomic.LoadUint32(&m.disabled)&(1<<uint(id)) == 0
}

// Toggle flips the enabled flag of channel id and returns the new state.
func (m *Mask) Toggle(id int) (bool, error) {
	if !validID(id) {
		return false, ErrInvalidID
	}
	bit := uint32(1) << uint(id)
	for {
		old := atomic.LoadUint32(&m.disabled)
		if atomic.CompareAndSwapUint32(&m.disabled, old, old^bit) {
			return old&bit != 0, nil
		}
	}
}

// Set enables or disables channel id.
func (m *Mask) Set(id int, enabled bool) error {
	if !validID(id) {
		return ErrInvalidID
	}
	bit := uint32(1) << uint(id)
	for {
		old := atomic.LoadUint32(&m.disabled)
		val := old | bit
		if enabled {
			val = old &^ bit
		}
		if atomic.CompareAndSwapUint32(&m.disabled, old, val) {
			return nil
		}
	}
}

// Bits returns a bit per enabled channel, bit n for channel n.
func (m *Mask) Bits() uint8 {
	return uint8(^atomic.LoadUint32(&m.disabled) & (1<<Count - 1))
}

// CarrierGate returns the carrier port lines of the enabled channels.
// The mask is read once so a whole symbol sees one consistent gate.
func (m *Mask) CarrierGate(channels []Channel) byte {
	enabled := m.Bits()
	var gate byte
	for _, c := range channels {
		if enabled&(1<<uint(c.ID)) != 0 {
			gate |= 1 << c.CarrierBit
		}
	}
	return gate
}

func validID(id int) bool {
	return id >= 0 && id < Count
}
