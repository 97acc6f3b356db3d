// Package amp drives a Logitech Z906 amplifier over its half-duplex serial
// console port.
//
// Typical usage:
//
//	port, _ := serial.Open("/dev/ttyUSB0")
//	z := amp.New(port)
//	if err := z.On(ctx); err != nil { ... }
//	vol, err := z.Request(ctx, amp.MainLevel)
//
// The driver owns the transport exclusively and does no locking: callers must
// serialize their requests.
package amp

import (
	"log/slog"
	"time"

	"github.com/mklimuk/z906"
)

const (
	DefaultTimeout      = 1000 * time.Millisecond
	DefaultDeadtime     = 50 * time.Millisecond
	DefaultPollInterval = time.Millisecond
)

type Config struct {
	// Timeout bounds every wait for reply bytes.
	Timeout time.Duration

	// Deadtime is the silence observed before each write and after writes
	// whose acknowledgment is discarded.
	Deadtime time.Duration

	// PollInterval is the pause between two checks of the receive queue.
	PollInterval time.Duration

	Clock  z906.Clock
	Logger *slog.Logger
}

type Option func(*Config)

func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

func WithDeadtime(deadtime time.Duration) Option {
	return func(c *Config) {
		c.Deadtime = deadtime
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.PollInterval = interval
	}
}

func WithClock(clock z906.Clock) Option {
	return func(c *Config) {
		c.Clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// Z906 is the amplifier driver.
type Z906 struct {
	transport z906.Transport
	config    Config
	log       *slog.Logger
	status    Status
}

func New(transport z906.Transport, opts ...Option) *Z906 {
	config := Config{
		Timeout:      DefaultTimeout,
		Deadtime:     DefaultDeadtime,
		PollInterval: DefaultPollInterval,
		Clock:        z906.SystemClock,
	}
	for _, opt := range opts {
		opt(&config)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Z906{
		transport: transport,
		config:    config,
		log:       logger.With("device", "z906"),
		status:    newStatus(),
	}
}

// Status returns a copy of the status cache.
func (z *Z906) Status() Status {
	return z.status.clone()
}
