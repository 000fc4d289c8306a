package hw

import "github.com/davecheney/gpio"

func openPin(num int) (gpio.Pin, error) {
	return gpio.OpenPin(num, gpio.ModeOutput)
}
