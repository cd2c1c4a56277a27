package main

import (
	"machine"
	"time"

	"libdb.so/ledchase/chase"
	"libdb.so/ledchase/stm32f4disco"
)

// initPeripherals configures the LED pins as push-pull outputs and returns
// them along with the delay provider. It must be called exactly once; the
// caller owns everything it returns.
func initPeripherals() (busyDelay, chase.LEDs) {
	// The runtime sets up the clock tree before main is called.
	if machine.CPUFrequency() == 0 {
		panic("system clock is not running")
	}

	var leds chase.LEDs
	stm32f4disco.EachLED(func(i int, pin machine.Pin) {
		pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
		pin.Low()
		leds[i] = chase.ActiveHigh(pin)
	})

	return busyDelay{}, leds
}

// busyDelay waits by polling the system timer.
type busyDelay struct{}

func (busyDelay) Delay(d time.Duration) {
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
	}
}
