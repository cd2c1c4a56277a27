// Command chasesim runs the LED chase against a ring drawn in the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/pflag"
	"libdb.so/ledchase"
	"libdb.so/ledchase/chase"
	"libdb.so/ledchase/internal/ledvis"
)

var (
	config   = "ledchase.toml"
	interval = time.Duration(0)
	style    = ledvis.DotStyle.String()
	verbose  = false
)

func init() {
	pflag.StringVarP(&config, "config", "c", config, "configuration file, ignored if missing")
	pflag.DurationVarP(&interval, "interval", "i", interval, "delay after each LED change, overrides the configuration")
	pflag.StringVarP(&style, "style", "s", style, "ring style: dot, block or ascii")
	pflag.BoolVarP(&verbose, "verbose", "v", verbose, "verbose output")
}

func main() {
	pflag.Parse()

	logLevel := slog.LevelWarn
	if verbose {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := readConfig()
	if err != nil {
		return err
	}
	if interval != 0 {
		cfg.Interval = ledchase.TOMLDuration(interval)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	s, err := ledvis.ParseStyle(style)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	out := ledvis.NewOutput(func(f ledvis.Frame) {
		fmt.Fprintf(os.Stdout, "\r%s", f.Render(s))
	})

	c := chase.New(out.LEDs(), sleepDelay{ctx}, time.Duration(cfg.Interval))
	slog.Debug("starting chase", "interval", time.Duration(cfg.Interval), "style", s)

	for ctx.Err() == nil {
		c.Tick()
	}

	fmt.Fprintln(os.Stdout)
	return nil
}

// sleepDelay sleeps, returning early once ctx is canceled.
type sleepDelay struct {
	ctx context.Context
}

func (d sleepDelay) Delay(dt time.Duration) {
	t := time.NewTimer(dt)
	defer t.Stop()

	select {
	case <-d.ctx.Done():
	case <-t.C:
	}
}

func readConfig() (*ledchase.Config, error) {
	f, err := os.Open(config)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ledchase.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	return ledchase.ParseConfig(f)
}
