package amp

import (
	"context"
	"errors"
	"fmt"
	"io"
)

func (z *Z906) On(ctx context.Context) error {
	if err := z.write(ctx, byte(PowerOn)); err != nil {
		return err
	}
	return z.settle(ctx)
}

// Off puts the amplifier in standby, resets its power-up timer and saves the
// settings to EEPROM.
func (z *Z906) Off(ctx context.Context) error {
	if err := z.write(ctx, byte(PowerOff)); err != nil {
		return err
	}
	if err := z.write(ctx, byte(ResetPowerUp), resetPowerUpArg, byte(EEPROMSave)); err != nil {
		return err
	}
	return z.settle(ctx)
}

// Input switches to in with the given effect. The switch is muted so it never
// pops. EffectDefault picks the console default for the input.
func (z *Z906) Input(ctx context.Context, in Input, fx Effect) error {
	if fx == EffectDefault {
		fx = DefaultEffect(in)
	}
	z.log.Debug("selecting input", "input", in.String(), "effect", fx.String())
	if err := z.write(ctx, byte(MuteOn), byte(in), byte(fx), byte(MuteOff)); err != nil {
		return err
	}
	return z.settle(ctx)
}

// Exec sends a single command and discards the acknowledgment.
func (z *Z906) Exec(ctx context.Context, cmd Command) error {
	if err := z.write(ctx, byte(cmd)); err != nil {
		return err
	}
	return z.settle(ctx)
}

// Cmd sends a single command and returns the first reply byte.
func (z *Z906) Cmd(ctx context.Context, cmd Command) (byte, error) {
	if err := z.write(ctx, byte(cmd)); err != nil {
		return 0, err
	}
	start := z.config.Clock.Now()
	if err := z.waitFor(ctx, 1, start); err != nil {
		return 0, fmt.Errorf("z906: command %#02x: %w", byte(cmd), err)
	}
	reply := make([]byte, 1)
	if err := z.read(ctx, reply); err != nil {
		return 0, err
	}
	return reply[0], nil
}

// MainSensor reads the main temperature sensor. The reading is the raw sensor byte.
func (z *Z906) MainSensor(ctx context.Context) (byte, error) {
	if err := z.write(ctx, byte(GetTemperature)); err != nil {
		return 0, err
	}
	start := z.config.Clock.Now()
	if err := z.waitFor(ctx, TempFrameLength, start); err != nil {
		return 0, fmt.Errorf("z906: temperature: %w", err)
	}
	frame := make([]byte, TempFrameLength)
	if err := z.read(ctx, frame); err != nil {
		return 0, err
	}
	if frame[offsetTempModel] != ModelTemperature {
		return 0, fmt.Errorf("z906: temperature: %w: unexpected model %#02x", ErrInvalidFrame, frame[offsetTempModel])
	}
	return frame[offsetTempReading], nil
}

// PrintStatus refreshes the status and writes the held frame to w as hex
// bytes. The bytes are written even when the refresh fails, in which case
// the refresh error is returned.
func (z *Z906) PrintStatus(ctx context.Context, w io.Writer) error {
	refreshErr := z.Refresh(ctx)
	if _, err := fmt.Fprintln(w, FormatFrame(z.status.Bytes())); err != nil {
		return errors.Join(refreshErr, err)
	}
	return refreshErr
}

// FormatFrame renders a frame as space separated upper case hex bytes.
func FormatFrame(frame []byte) string {
	return fmt.Sprintf("% X", frame)
}
