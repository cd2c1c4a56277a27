// Package fault implements the fatal error path of the firmware: stop
// interrupts, leave one message on the trace channel, then park the
// processor.
package fault

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// MaxMessageLen is the longest message a Handler passes to its Tracer.
// Longer messages are truncated on a rune boundary.
const MaxMessageLen = 256

// Tracer writes a single diagnostic message to a trace channel.
type Tracer interface {
	// Trace writes msg. It is called at most once per Handler, with
	// interrupts disabled, so it must not rely on them.
	Trace(msg string) error
}

// LineTracer is a Tracer that writes the message as a plain text line.
type LineTracer struct {
	W io.Writer
}

// Trace implements Tracer.
func (t LineTracer) Trace(msg string) error {
	_, err := io.WriteString(t.W, "panic: "+msg+"\n")
	return err
}

// Handler is the fatal error hook. The zero value parks nothing and traces
// nothing, so all hooks are optional.
type Handler struct {
	// DisableInterrupts disables interrupts globally.
	DisableInterrupts func()
	// Tracer receives the diagnostic message. It may be nil when no trace
	// channel is attached.
	Tracer Tracer
	// Park stops the processor. On hardware it never returns.
	Park func()

	halted bool
}

// Halt disables interrupts, traces msg and parks. The message is only
// traced for the first fault; a fault while halting parks right away.
func (h *Handler) Halt(msg string) {
	if h.DisableInterrupts != nil {
		h.DisableInterrupts()
	}

	if !h.halted {
		h.halted = true
		if h.Tracer != nil {
			msg = truncate(msg, MaxMessageLen)
			// Nothing is left to report a trace failure to.
			_ = h.Tracer.Trace(msg)
		}
	}

	if h.Park != nil {
		h.Park()
	}
}

// Halted reports whether Halt was called.
func (h *Handler) Halted() bool {
	return h.halted
}

// Recover halts with the recovered panic value, if any. It must be deferred
// directly:
//
//	defer handler.Recover()
func (h *Handler) Recover() {
	if v := recover(); v != nil {
		h.Halt(message(v))
	}
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func message(v any) string {
	switch v := v.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
