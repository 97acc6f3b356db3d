package amp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mklimuk/z906/devctx"
)

var ErrTimeout = errors.New("timed out waiting for reply")

// settle keeps the line silent for the deadtime and then discards whatever the
// amplifier sent in the meantime, so no stray acknowledgment leaks into the
// next read.
func (z *Z906) settle(ctx context.Context) error {
	z.config.Clock.Sleep(z.config.Deadtime)
	var drained []byte
	for {
		n, err := z.transport.Available()
		if err != nil {
			return fmt.Errorf("z906: could not query receive queue: %w", err)
		}
		if n == 0 {
			break
		}
		for range n {
			b, err := z.transport.ReadByte()
			if err != nil {
				return fmt.Errorf("z906: could not drain receive queue: %w", err)
			}
			drained = append(drained, b)
		}
	}
	if len(drained) > 0 && devctx.IsVerbose(ctx) {
		z.log.Debug("discarded stale bytes", "count", len(drained), "bytes", fmt.Sprintf("% X", drained))
	}
	return nil
}

// write transmits p after the deadtime and returns once the transport has
// physically sent every byte.
func (z *Z906) write(ctx context.Context, p ...byte) error {
	if err := z.settle(ctx); err != nil {
		return err
	}
	if devctx.IsVerbose(ctx) {
		z.log.Debug("tx", "bytes", fmt.Sprintf("% X", p))
	}
	n, err := z.transport.Write(p)
	if err != nil {
		return fmt.Errorf("z906: write failed: %w", err)
	}
	if n != len(p) {
		return fmt.Errorf("z906: short write: %d of %d bytes", n, len(p))
	}
	if err := z.transport.Flush(); err != nil {
		return fmt.Errorf("z906: could not flush transmit queue: %w", err)
	}
	return nil
}

// waitFor polls the receive queue until count bytes are available or the
// timeout measured from start elapses.
func (z *Z906) waitFor(ctx context.Context, count int, start time.Time) error {
	for {
		n, err := z.transport.Available()
		if err != nil {
			return fmt.Errorf("z906: could not query receive queue: %w", err)
		}
		if n >= count {
			return nil
		}
		if elapsed := z.config.Clock.Now().Sub(start); elapsed > z.config.Timeout {
			return fmt.Errorf("%w: %d of %d bytes after %s", ErrTimeout, n, count, elapsed)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		z.config.Clock.Sleep(z.config.PollInterval)
	}
}

// read fills dst from the receive queue. Callers wait for the bytes first.
func (z *Z906) read(ctx context.Context, dst []byte) error {
	for i := range dst {
		b, err := z.transport.ReadByte()
		if err != nil {
			return fmt.Errorf("z906: read failed: %w", err)
		}
		dst[i] = b
	}
	if devctx.IsVerbose(ctx) {
		z.log.Debug("rx", "bytes", fmt.Sprintf("% X", dst))
	}
	return nil
}
