// Package ledchase contains the host side of ledchase: a monitor for the
// board's trace channel and the configuration shared by the host tools.
package ledchase

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
	"golang.org/x/sync/errgroup"
	"libdb.so/ledchase/tracewire"
)

// readTimeout bounds each serial read so that a partial frame left by line
// noise is eventually given up on.
const readTimeout = 100 * time.Millisecond

// ErrReadTimeout is returned by readers passed to Monitor.Watch when no data
// arrived in time.
var ErrReadTimeout = errors.New("read timed out")

// ErrControllerPanicked is returned by Monitor.Run when the board reports
// that it halted.
var ErrControllerPanicked = errors.New("controller panicked")

// Monitor watches the board's trace channel.
type Monitor struct {
	cfg    *Config
	logger *slog.Logger
}

// NewMonitor creates a new trace monitor.
func NewMonitor(cfg *Config, logger *slog.Logger) (*Monitor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &Monitor{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Run opens the serial port and watches it until the given context is
// canceled or the board panics. If the board panics, the returned error wraps
// ErrControllerPanicked.
func (m *Monitor) Run(ctx context.Context) error {
	port, err := serial.Open(m.cfg.Device, m.cfg.SerialMode())
	if err != nil {
		return errors.Wrap(err, "failed to open serial port")
	}
	defer port.Close()

	if err := port.SetReadTimeout(readTimeout); err != nil {
		return errors.Wrap(err, "failed to set read timeout")
	}

	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		<-ctx.Done()
		m.logger.Debug("closing serial port")
		if err := port.Close(); err != nil {
			return errors.Wrap(err, "failed to close serial port")
		}
		return ctx.Err()
	})
	errg.Go(func() error {
		return m.Watch(ctx, timeoutReader{port})
	})

	return errg.Wait()
}

// Watch decodes trace packets from r until ctx is canceled, r reaches
// io.EOF or the board panics. Bytes that do not form a valid packet are
// skipped. Watch returns nil on io.EOF; errors wrapping ErrReadTimeout are
// retried.
func (m *Monitor) Watch(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)

	for ctx.Err() == nil {
		p, err := tracewire.ReadPacket(br)
		if err != nil {
			switch {
			case errors.Is(err, ErrReadTimeout):
				continue
			case errors.Is(err, io.EOF):
				m.logger.Debug("trace stream ended")
				return nil
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				return errors.Wrap(err, "failed to read packet")
			}
		}

		m.logger.Debug(
			"received packet from controller",
			"type", p.Type())

		switch p := p.(type) {
		case tracewire.PanicPacket:
			m.logger.Error(
				"controller unrecoverably panicked",
				"message", p.Message)
			return errors.Wrap(ErrControllerPanicked, p.Message)
		}
	}

	return ctx.Err()
}

// timeoutReader turns the empty reads of a serial port that timed out into
// ErrReadTimeout.
type timeoutReader struct {
	r io.Reader
}

func (r timeoutReader) Read(b []byte) (int, error) {
	n, err := r.r.Read(b)
	if n == 0 && err == nil {
		return 0, ErrReadTimeout
	}
	return n, err
}
