package amp

import (
	"errors"
	"fmt"
)

var ErrStaleStatus = errors.New("status cache does not hold a verified frame")
var ErrFieldRange = errors.New("field outside of status payload")

// Status is the last status frame read from the amplifier. The buffer is sized
// for the longest possible frame; only the first n bytes are meaningful.
type Status struct {
	buf   []byte
	n     int
	valid bool
}

func newStatus() Status {
	return Status{buf: make([]byte, MaxFrameLength)}
}

// Bytes returns the received frame bytes, verified or not.
func (s Status) Bytes() []byte {
	return s.buf[:s.n]
}

// Len is the number of frame bytes held.
func (s Status) Len() int {
	return s.n
}

// Valid reports whether the held frame passed validation.
func (s Status) Valid() bool {
	return s.valid
}

func (s Status) clone() Status {
	buf := make([]byte, len(s.buf))
	copy(buf, s.buf)
	return Status{buf: buf, n: s.n, valid: s.valid}
}

// checkPayload verifies that f addresses a payload byte of a verified frame.
func (s Status) checkPayload(f Field) error {
	if !s.valid {
		return ErrStaleStatus
	}
	if int(f) < headerLength || int(f) >= s.n-1 {
		return fmt.Errorf("%w: %s (frame has %d bytes)", ErrFieldRange, f, s.n)
	}
	return nil
}

// Field returns the raw byte at f.
func (s Status) Field(f Field) (byte, error) {
	if err := s.checkPayload(f); err != nil {
		return 0, err
	}
	return s.buf[f], nil
}

// Level returns a channel level on the 0..255 scale.
func (s Status) Level(f Field) (byte, error) {
	if !f.IsLevel() {
		return 0, fmt.Errorf("%s is not a level", f)
	}
	v, err := s.Field(f)
	if err != nil {
		return 0, err
	}
	return DecodeLevel(v), nil
}

// CurrentInput returns the selected input as its 1-based front panel number.
func (s Status) CurrentInput() (int, error) {
	v, err := s.Field(CurrentInput)
	if err != nil {
		return 0, err
	}
	return int(v) + 1, nil
}

func (s Status) Version() (int, error) {
	if err := s.checkPayload(VersionC); err != nil {
		return 0, err
	}
	return DecodeVersion(s.buf[VersionA], s.buf[VersionB], s.buf[VersionC]), nil
}

// PoweredOn reports whether the amplifier is out of standby.
func (s Status) PoweredOn() (bool, error) {
	v, err := s.Field(Standby)
	if err != nil {
		return false, err
	}
	return v == 0, nil
}

// Report is a decoded summary of a status frame.
type Report struct {
	Input       int  `yaml:"input" json:"input"`
	Main        int  `yaml:"main" json:"main"`
	Rear        int  `yaml:"rear" json:"rear"`
	Center      int  `yaml:"center" json:"center"`
	Subwoofer   int  `yaml:"subwoofer" json:"subwoofer"`
	Version     int  `yaml:"version" json:"version"`
	PoweredOn   bool `yaml:"powered_on" json:"powered_on"`
	AutoStandby bool `yaml:"auto_standby" json:"auto_standby"`
}

func (s Status) Report() (Report, error) {
	var r Report
	var err error
	if r.Input, err = s.CurrentInput(); err != nil {
		return Report{}, err
	}
	levels := []struct {
		field Field
		dst   *int
	}{
		{MainLevel, &r.Main},
		{RearLevel, &r.Rear},
		{CenterLevel, &r.Center},
		{SubLevel, &r.Subwoofer},
	}
	for _, l := range levels {
		v, err := s.Level(l.field)
		if err != nil {
			return Report{}, err
		}
		*l.dst = int(v)
	}
	if r.Version, err = s.Version(); err != nil {
		return Report{}, err
	}
	if r.PoweredOn, err = s.PoweredOn(); err != nil {
		return Report{}, err
	}
	auto, err := s.Field(AutoStandby)
	if err != nil {
		return Report{}, err
	}
	r.AutoStandby = auto != 0
	return r, nil
}
