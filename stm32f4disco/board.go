//go:build stm32f4disco

// Package stm32f4disco describes the LED wiring of the board.
package stm32f4disco

import (
	"machine"

	"libdb.so/ledchase/chase"
)

// LEDPins are the chase LEDs in order around the board. They sit on the same
// port and pins as the compass LEDs of the other Discovery boards.
var LEDPins = [chase.NumLEDs]machine.Pin{
	machine.PE8,
	machine.PE9,
	machine.PE10,
	machine.PE11,
	machine.PE12,
	machine.PE13,
	machine.PE14,
	machine.PE15,
}

// TraceUART is the UART the fault trace is written to. It is wired to the
// ST-LINK virtual COM port.
var TraceUART = machine.UART1

// TraceBaud is the baud rate of TraceUART.
const TraceBaud = 115200

// EachLED calls f for each LED pin with its index.
func EachLED(f func(int, machine.Pin)) {
	for i, pin := range LEDPins {
		f(i, pin)
	}
}
