// Package ledvis draws the LED ring in a terminal.
package ledvis

import (
	"fmt"
	"strings"

	"libdb.so/ledchase/chase"
)

// Frame is the state of every LED, true meaning lit.
type Frame [chase.NumLEDs]bool

// Lit returns the number of lit LEDs.
func (f Frame) Lit() int {
	var n int
	for _, on := range f {
		if on {
			n++
		}
	}
	return n
}

// Style is the style to draw the ring in.
type Style uint8

const (
	// DotStyle draws each LED as a filled or hollow circle.
	DotStyle Style = iota
	// BlockStyle draws each LED as a full or light shaded block.
	BlockStyle
	// ASCIIStyle draws each LED as '*' or '.'.
	ASCIIStyle
)

// ParseStyle parses the name returned by Style.String.
func ParseStyle(name string) (Style, error) {
	for _, s := range []Style{DotStyle, BlockStyle, ASCIIStyle} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown style %q", name)
}

// Glyphs returns the runes drawn for a lit and an unlit LED.
func (s Style) Glyphs() (on, off rune) {
	switch s {
	case DotStyle:
		return '●', '○'
	case BlockStyle:
		return '█', '░'
	case ASCIIStyle:
		return '*', '.'
	default:
		panic("invalid style")
	}
}

func (s Style) String() string {
	switch s {
	case DotStyle:
		return "dot"
	case BlockStyle:
		return "block"
	case ASCIIStyle:
		return "ascii"
	default:
		panic("invalid style")
	}
}

// Render draws the frame as a single line, LED 0 first.
func (f Frame) Render(s Style) string {
	on, off := s.Glyphs()

	var b strings.Builder
	for _, lit := range f {
		if lit {
			b.WriteRune(on)
		} else {
			b.WriteRune(off)
		}
	}
	return b.String()
}
