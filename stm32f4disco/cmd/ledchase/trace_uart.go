//go:build !semihosting

package main

import (
	"machine"

	"libdb.so/ledchase/fault"
	"libdb.so/ledchase/stm32f4disco"
	"libdb.so/ledchase/tracewire"
)

// uartWriter writes to a UART one byte at a time. WriteByte polls the
// transmit register, so it still works once interrupts are disabled.
type uartWriter struct {
	uart *machine.UART
}

func (w uartWriter) Write(b []byte) (int, error) {
	for i, c := range b {
		if err := w.uart.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(b), nil
}

// newTracer sets up the trace UART. Faults are written as tracewire packets
// for chasetrace to decode.
func newTracer() fault.Tracer {
	stm32f4disco.TraceUART.Configure(machine.UARTConfig{
		BaudRate: stm32f4disco.TraceBaud,
	})
	return tracewire.PacketTracer{
		W: uartWriter{stm32f4disco.TraceUART},
	}
}
