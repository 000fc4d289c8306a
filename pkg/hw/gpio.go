package hw

import (
	"github.com/davecheney/gpio"
	"github.com/pkg/errors"
)

type pinSet [8]gpio.Pin

func openPins(lines []int) (pins pinSet, err error) {
	if len(lines) > len(pins) {
		return pins, errors.Errorf("too many lines: %d", len(lines))
	}
	for n, num := range lines {
		if num == Unconnected {
			continue
		}
		if pins[n], err = openPin(num); err != nil {
			pins.close()
			return pinSet{}, errors.Wrapf(err, "open gpio %d", num)
		}
	}
	return pins, nil
}

func (s *pinSet) close() error {
	var err error
	for n, pin := range s {
		if pin != nil {
			if e := pin.Close(); e != nil && err == nil {
				err = e
			}
			s[n] = nil
		}
	}
	return err
}

func (s *pinSet) err() error {
	for _, pin := range s {
		if pin != nil {
			if err := pin.Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func setPin(pin gpio.Pin, on bool) {
	if on {
		pin.Set()
	} else {
		pin.Clear()
	}
}

// GPIOPort is a data Port with one GPIO pin per line.
type GPIOPort struct {
	pins pinSet
}

// OpenGPIOPort opens the GPIO pins of the data lines, line 0 first.
func OpenGPIOPort(lines []int) (*GPIOPort, error) {
	pins, err := openPins(lines)
	if err != nil {
		return nil, err
	}
	return &GPIOPort{pins: pins}, nil
}

// Write implements Port.
func (p *GPIOPort) Write(v byte) {
	for n, pin := range p.pins {
		if pin != nil {
			setPin(pin, v&(1<<uint(n)) != 0)
		}
	}
}

// Err returns the first pin error seen.
func (p *GPIOPort) Err() error {
	return p.pins.err()
}

// Close releases the pins.
func (p *GPIOPort) Close() error {
	return p.pins.close()
}

// GPIOCarrier is a CarrierPort with one GPIO pin per line.
type GPIOCarrier struct {
	pins  pinSet
	level byte
}

// OpenGPIOCarrier opens the GPIO pins of the carrier lines, line 0 first.
// All lines start low.
func OpenGPIOCarrier(lines []int) (*GPIOCarrier, error) {
	pins, err := openPins(lines)
	if err != nil {
		return nil, err
	}
	c := &GPIOCarrier{pins: pins}
	for _, pin := range c.pins {
		if pin != nil {
			pin.Clear()
		}
	}
	return c, nil
}

// Toggle implements CarrierPort.
func (c *GPIOCarrier) Toggle(mask byte) {
	c.level ^= mask
	for n, pin := range c.pins {
		if bit := byte(1) << uint(n); pin != nil && mask&bit != 0 {
			setPin(pin, c.level&bit != 0)
		}
	}
}

// Err returns the first pin error seen.
func (c *GPIOCarrier) Err() error {
	return c.pins.err()
}

// Close releases the pins.
func (c *GPIOCarrier) Close() error {
	return c.pins.close()
}

// GPIOPin is a Pin on a single GPIO.
type GPIOPin struct {
	pin gpio.Pin
	on  bool
}

// OpenGPIOPin opens a GPIO pin as output, initially low.
func OpenGPIOPin(num int) (*GPIOPin, error) {
	pin, err := openPin(num)
	if err != nil {
		return nil, errors.Wrapf(err, "open gpio %d", num)
	}
	pin.Clear()
	return &GPIOPin{pin: pin}, nil
}

// Set implements Pin.
func (p *GPIOPin) Set(on bool) {
	p.on = on
	setPin(p.pin, on)
}

// Toggle implements Pin.
func (p *GPIOPin) Toggle() {
	p.Set(!p.on)
}

// Close releases the pin.
func (p *GPIOPin) Close() error {
	return p.pin.Close()
}
