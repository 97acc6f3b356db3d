// Package serial connects the amplifier driver to a USB serial adapter.
package serial

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/mklimuk/z906"
)

var _ z906.Transport = &Port{}

var ErrNoData = errors.New("no data available")

const (
	DefaultBaudRate    = 57600
	DefaultReadTimeout = time.Millisecond
)

// device is the part of serial.Port the transport relies on.
type device interface {
	io.ReadWriteCloser
	Drain() error
	ResetInputBuffer() error
	SetReadTimeout(t time.Duration) error
}

type Opts struct {
	BaudRate int

	// ReadTimeout bounds a single poll of the receive queue.
	ReadTimeout time.Duration
}

func WithBaudRate(baud int) func(*Opts) {
	return func(o *Opts) {
		o.BaudRate = baud
	}
}

func WithReadTimeout(timeout time.Duration) func(*Opts) {
	return func(o *Opts) {
		o.ReadTimeout = timeout
	}
}

// Port is a z906.Transport over a serial line configured as 8 data bits, odd
// parity and one stop bit.
type Port struct {
	mx     sync.Mutex
	name   string
	dev    device
	rx     []byte
	chunk  []byte
	closed bool
}

func Open(name string, opts ...func(*Opts)) (*Port, error) {
	o := Opts{BaudRate: DefaultBaudRate, ReadTimeout: DefaultReadTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	mode := &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: 8,
		Parity:   serial.OddParity,
		StopBits: serial.OneStopBit,
	}
	p, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("could not open serial port %s: %w", name, err)
	}
	port, err := newPort(name, p, o.ReadTimeout)
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	return port, nil
}

func newPort(name string, dev device, readTimeout time.Duration) (*Port, error) {
	if err := dev.SetReadTimeout(readTimeout); err != nil {
		return nil, fmt.Errorf("could not set read timeout on %s: %w", name, err)
	}
	if err := dev.ResetInputBuffer(); err != nil {
		return nil, fmt.Errorf("could not reset input buffer on %s: %w", name, err)
	}
	return &Port{
		name:  name,
		dev:   dev,
		chunk: make([]byte, 256),
	}, nil
}

func (p *Port) Name() string {
	return p.name
}

func (p *Port) Write(b []byte) (int, error) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.closed {
		return 0, z906.ErrPortClosed
	}
	n, err := p.dev.Write(b)
	if err != nil {
		return n, fmt.Errorf("could not write to %s: %w", p.name, err)
	}
	return n, nil
}

// Flush blocks until the adapter has transmitted everything written so far.
func (p *Port) Flush() error {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.closed {
		return z906.ErrPortClosed
	}
	if err := p.dev.Drain(); err != nil {
		return fmt.Errorf("could not drain %s: %w", p.name, err)
	}
	return nil
}

// Available moves whatever the adapter received into the local queue and
// returns the queue length. It waits at most the read timeout.
func (p *Port) Available() (int, error) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.closed {
		return 0, z906.ErrPortClosed
	}
	if err := p.pull(); err != nil {
		return len(p.rx), err
	}
	return len(p.rx), nil
}

func (p *Port) ReadByte() (byte, error) {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.closed {
		return 0, z906.ErrPortClosed
	}
	if len(p.rx) == 0 {
		if err := p.pull(); err != nil {
			return 0, err
		}
	}
	if len(p.rx) == 0 {
		return 0, ErrNoData
	}
	b := p.rx[0]
	p.rx = p.rx[1:]
	return b, nil
}

func (p *Port) pull() error {
	n, err := p.dev.Read(p.chunk)
	if n > 0 {
		p.rx = append(p.rx, p.chunk[:n]...)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("could not read from %s: %w", p.name, err)
	}
	return nil
}

func (p *Port) Close() error {
	p.mx.Lock()
	defer p.mx.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.rx = nil
	return p.dev.Close()
}
