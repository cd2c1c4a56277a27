// Package chase implements the round-robin LED chase. It only depends on the
// standard library so that it builds for both the host and TinyGo targets.
package chase

import "time"

// NumLEDs is the number of LEDs around the board.
const NumLEDs = 8

// DefaultInterval is the delay after each on and off assertion.
const DefaultInterval = 50 * time.Millisecond

// Switch is a digital output that can be turned on and off.
type Switch interface {
	// On turns the output on.
	On() error
	// Off turns the output off.
	Off() error
}

// Pin describes a GPIO pin configured as an output. machine.Pin implements
// this interface.
type Pin interface {
	Set(high bool)
}

// ActiveHigh wraps the given pin into a Switch where on drives the line high.
func ActiveHigh(pin Pin) Switch {
	return activeHigh{pin}
}

type activeHigh struct{ pin Pin }

func (s activeHigh) On() error {
	s.pin.Set(true)
	return nil
}

func (s activeHigh) Off() error {
	s.pin.Set(false)
	return nil
}

// Delayer blocks for a given duration.
type Delayer interface {
	// Delay blocks for d.
	Delay(d time.Duration)
}

// LEDs is the fixed set of LEDs. Index 0 through 7 follow the physical order
// of the LEDs around the board.
type LEDs [NumLEDs]Switch

// Next returns the index after current, wrapping around after the last LED.
func Next(current int) int {
	return (current + 1) % NumLEDs
}

// Chaser owns the LEDs and the delay provider and lights one LED after
// another in ascending order.
type Chaser struct {
	leds     LEDs
	delay    Delayer
	interval time.Duration
	current  int
}

// New creates a new Chaser starting at LED 0. The Chaser takes ownership of
// leds and delay; neither should be used by the caller afterwards.
func New(leds LEDs, delay Delayer, interval time.Duration) *Chaser {
	return &Chaser{
		leds:     leds,
		delay:    delay,
		interval: interval,
	}
}

// Current returns the index of the LED that is currently lit.
func (c *Chaser) Current() int {
	return c.current
}

// Tick advances the chase by one LED. The next LED is turned on before the
// current one is turned off, so both are briefly lit together.
func (c *Chaser) Tick() {
	if c.current < 0 || c.current >= NumLEDs {
		c.current = 0
	}

	next := Next(c.current)

	// Switch errors are ignored: the outputs cannot fail on the target.
	_ = c.leds[next].On()
	c.delay.Delay(c.interval)

	_ = c.leds[c.current].Off()
	c.delay.Delay(c.interval)

	c.current = next
}

// Run runs the chase forever.
func (c *Chaser) Run() {
	for {
		c.Tick()
	}
}
