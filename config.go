package ledchase

import (
	"encoding"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"libdb.so/ledchase/chase"
)

// Config is the configuration for the ledchase host tools.
type Config struct {
	// Device is the path to the serial device the board's trace UART is
	// attached to. This is usually /dev/ttyUSB0 or /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the baud rate for the serial connection.
	Baud int `toml:"baud"`
	// Interval is the delay after each on and off assertion. It is only used
	// by the simulator; the board has it built in.
	Interval TOMLDuration `toml:"interval"`
}

// DefaultConfig returns the configuration matching the reference board.
func DefaultConfig() *Config {
	return &Config{
		Device:   "/dev/ttyACM0",
		Baud:     115200,
		Interval: TOMLDuration(chase.DefaultInterval),
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Device == "" {
		return errors.New("no device configured")
	}
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud rate %d", c.Baud)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("invalid interval %v", time.Duration(c.Interval))
	}
	return nil
}

// SerialMode returns the serial port mode for the configuration.
func (c *Config) SerialMode() *serial.Mode {
	return &serial.Mode{
		BaudRate: c.Baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// TOMLDuration is a duration that can be parsed from TOML.
type TOMLDuration time.Duration

var (
	_ encoding.TextUnmarshaler = (*TOMLDuration)(nil)
	_ encoding.TextMarshaler   = (*TOMLDuration)(nil)
)

func (d *TOMLDuration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = TOMLDuration(duration)
	return nil
}

func (d TOMLDuration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// ParseConfig parses a configuration from a reader. Fields missing from the
// input keep their DefaultConfig values.
func ParseConfig(r io.Reader) (*Config, error) {
	var config Config
	if err := toml.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	def := DefaultConfig()
	if config.Device == "" {
		config.Device = def.Device
	}
	if config.Baud == 0 {
		config.Baud = def.Baud
	}
	if config.Interval == 0 {
		config.Interval = def.Interval
	}

	return &config, nil
}
