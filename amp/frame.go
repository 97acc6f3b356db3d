package amp

import (
	"errors"
	"fmt"
)

// Frame markers
const (
	STX              byte = 0xAA
	ModelStatus      byte = 0x0A
	ModelTemperature byte = 0x0C
)

// Status frame layout. Offsets not listed here are device specific payload.
const (
	offsetSTX    = 0x00
	offsetModel  = 0x01
	offsetLength = 0x02

	// headerLength covers STX, MODEL and the payload length byte.
	headerLength = offsetLength + 1

	// frameOverhead is everything in a status frame that is not payload.
	frameOverhead = 4

	// MaxFrameLength is the longest status frame a one byte length field can describe.
	MaxFrameLength = 0xFF + frameOverhead

	// StatusFrameLength is the length of the frame reported by current firmware.
	StatusFrameLength = 0x14 + frameOverhead
)

// Temperature frame layout
const (
	TempFrameLength   = 0x0A
	offsetTempModel   = 0x02
	offsetTempReading = 0x07
)

var ErrInvalidFrame = errors.New("invalid frame")

// Checksum computes the LRC of a frame: the negated sum of every byte between
// the first (STX) and the last (checksum slot). Frames shorter than 2 bytes have
// no interior and yield 0.
func Checksum(frame []byte) byte {
	var lrc byte
	for i := 1; i < len(frame)-1; i++ {
		lrc -= frame[i]
	}
	return lrc
}

// Seal writes the checksum into the last byte of frame.
func Seal(frame []byte) {
	if len(frame) < 2 {
		return
	}
	frame[len(frame)-1] = Checksum(frame)
}

// Validate checks a complete status frame.
func Validate(frame []byte) error {
	if len(frame) < headerLength+1 {
		return fmt.Errorf("%w: frame too short (%d bytes)", ErrInvalidFrame, len(frame))
	}
	if frame[offsetSTX] != STX {
		return fmt.Errorf("%w: unexpected start byte %#02x", ErrInvalidFrame, frame[offsetSTX])
	}
	if frame[offsetModel] != ModelStatus {
		return fmt.Errorf("%w: unexpected model %#02x", ErrInvalidFrame, frame[offsetModel])
	}
	if want := int(frame[offsetLength]) + frameOverhead; want != len(frame) {
		return fmt.Errorf("%w: length field announces %d bytes, got %d", ErrInvalidFrame, want, len(frame))
	}
	if lrc := Checksum(frame); lrc != frame[len(frame)-1] {
		return fmt.Errorf("%w: checksum mismatch: expected %#02x, got %#02x", ErrInvalidFrame, lrc, frame[len(frame)-1])
	}
	return nil
}

// NewStatusFrame builds a sealed status frame around payload.
func NewStatusFrame(payload []byte) ([]byte, error) {
	if len(payload) > 0xFF {
		return nil, fmt.Errorf("payload too long: %d bytes", len(payload))
	}
	frame := make([]byte, len(payload)+frameOverhead)
	frame[offsetSTX] = STX
	frame[offsetModel] = ModelStatus
	frame[offsetLength] = byte(len(payload))
	copy(frame[headerLength:], payload)
	Seal(frame)
	return frame, nil
}
