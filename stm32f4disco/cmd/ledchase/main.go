package main

import (
	"device/arm"
	"runtime/interrupt"

	"libdb.so/ledchase/chase"
	"libdb.so/ledchase/fault"
)

func main() {
	handler := &fault.Handler{
		DisableInterrupts: func() { interrupt.Disable() },
		Tracer:            newTracer(),
		Park:              park,
	}
	defer handler.Recover()

	delay, leds := initPeripherals()
	chase.New(leds, delay, chase.DefaultInterval).Run()
}

// park spins forever. The asm statement keeps the loop from being optimized
// away.
func park() {
	for {
		arm.Asm("nop")
	}
}
