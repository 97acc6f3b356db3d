package amp

import (
	"context"
	"fmt"
)

// Refresh requests the status frame and replaces the cache with it.
//
// The header and the payload are awaited separately but share one timeout
// budget counted from the request. After a failure the cache is marked stale.
// A header timeout keeps the previous bytes; later failures may leave them
// partially overwritten.
func (z *Z906) Refresh(ctx context.Context) error {
	if err := z.write(ctx, byte(GetStatus)); err != nil {
		return err
	}
	start := z.config.Clock.Now()
	z.status.valid = false

	if err := z.waitFor(ctx, headerLength, start); err != nil {
		return fmt.Errorf("z906: status header: %w", err)
	}
	z.status.n = 0
	if err := z.read(ctx, z.status.buf[:headerLength]); err != nil {
		return err
	}
	z.status.n = headerLength

	payloadLen := int(z.status.buf[offsetLength])
	total := payloadLen + frameOverhead
	// remaining payload plus the checksum byte
	if err := z.waitFor(ctx, payloadLen+1, start); err != nil {
		return fmt.Errorf("z906: status payload: %w", err)
	}
	if err := z.read(ctx, z.status.buf[headerLength:total]); err != nil {
		return err
	}
	z.status.n = total

	if err := Validate(z.status.buf[:total]); err != nil {
		return fmt.Errorf("z906: status: %w", err)
	}
	z.status.valid = true
	return nil
}

// Set changes a single status field by writing a whole, modified status frame
// back to the amplifier. Level fields take a 0..255 value.
//
// Set never writes when the embedded refresh fails, so a stale or partial
// frame cannot reach the device.
func (z *Z906) Set(ctx context.Context, f Field, value byte) error {
	if err := z.Refresh(ctx); err != nil {
		return fmt.Errorf("z906: set %s aborted: %w", f, err)
	}
	if err := z.status.checkPayload(f); err != nil {
		return fmt.Errorf("z906: set %s: %w", f, err)
	}
	if f.IsLevel() {
		value = EncodeLevel(value)
	}
	frame := z.status.buf[:z.status.n]
	frame[f] = value
	Seal(frame)
	z.log.Debug("writing status field", "field", f.String(), "value", value)
	if err := z.write(ctx, frame...); err != nil {
		z.status.valid = false
		return err
	}
	return z.settle(ctx)
}

// Request refreshes the status and decodes one value from it: levels on the
// 0..255 scale, the 1-based input, the firmware version, 1/0 for Power, or the
// raw byte of any other field. The value is 0 whenever err is not nil.
func (z *Z906) Request(ctx context.Context, f Field) (int, error) {
	if err := z.Refresh(ctx); err != nil {
		return 0, err
	}
	switch {
	case f == Version:
		return z.status.Version()
	case f == CurrentInput:
		return z.status.CurrentInput()
	case f == Power:
		on, err := z.status.PoweredOn()
		if err != nil || !on {
			return 0, err
		}
		return 1, nil
	case f.IsLevel():
		v, err := z.status.Level(f)
		return int(v), err
	default:
		v, err := z.status.Field(f)
		return int(v), err
	}
}
