package ledvis

import (
	"sync"

	"libdb.so/ledchase/chase"
)

// Output is a set of virtual LEDs. Its switches can be handed to a
// chase.Chaser.
type Output struct {
	mu       sync.Mutex
	frame    Frame
	onChange func(Frame)
}

// NewOutput creates a new Output. onChange, if not nil, is called with the
// new frame every time an LED changes state.
func NewOutput(onChange func(Frame)) *Output {
	return &Output{onChange: onChange}
}

// LEDs returns switches for all LEDs of the output.
func (o *Output) LEDs() chase.LEDs {
	var leds chase.LEDs
	for i := range leds {
		leds[i] = o.Switch(i)
	}
	return leds
}

// Switch returns the switch for LED i.
func (o *Output) Switch(i int) chase.Switch {
	return outputSwitch{o, i}
}

// AcquireFrame calls f with the current frame. f must not keep the frame
// after it returns.
func (o *Output) AcquireFrame(f func(Frame)) {
	o.mu.Lock()
	f(o.frame)
	o.mu.Unlock()
}

func (o *Output) set(i int, lit bool) {
	o.mu.Lock()
	changed := o.frame[i] != lit
	o.frame[i] = lit
	frame := o.frame
	o.mu.Unlock()

	if changed && o.onChange != nil {
		o.onChange(frame)
	}
}

type outputSwitch struct {
	o *Output
	i int
}

func (s outputSwitch) On() error {
	s.o.set(s.i, true)
	return nil
}

func (s outputSwitch) Off() error {
	s.o.set(s.i, false)
	return nil
}
