//go:build semihosting

package main

import (
	"libdb.so/ledchase/fault"
	"tinygo.org/x/drivers/semihosting"
)

// newTracer writes faults as a text line to the debugger's console. Enable it
// in GDB with "monitor arm semihosting enable".
func newTracer() fault.Tracer {
	return fault.LineTracer{W: semihosting.Stdout}
}
