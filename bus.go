// Package z906 holds the types shared by the amplifier driver and its transports.
package z906

import (
	"errors"
	"time"
)

var ErrPortClosed = errors.New("serial port is closed")

// Transport is a half-duplex byte channel to the amplifier.
type Transport interface {
	// Write queues p for transmission.
	Write(p []byte) (int, error)
	// Flush blocks until every queued byte has been physically transmitted.
	Flush() error
	// Available reports how many received bytes can be read without blocking.
	Available() (int, error)
	// ReadByte returns the next received byte.
	ReadByte() (byte, error)
}

// Clock is the time source of the driver timing loops.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the real clock.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
