//go:build !linux

package hw

import (
	"errors"

	"github.com/davecheney/gpio"
)

func openPin(int) (gpio.Pin, error) {
	return nil, errors.New("gpio not supported on this platform")
}
