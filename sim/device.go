// Package sim simulates a Z906 amplifier behind a z906.Transport. It answers
// status and temperature requests, applies power, input, effect and level
// commands, accepts full status frames and can inject line faults.
package sim

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mklimuk/z906"
	"github.com/mklimuk/z906/amp"
)

var _ z906.Transport = &Device{}

var ErrNoData = errors.New("no data available")

// Faults alter the frames the device sends.
type Faults struct {
	// Silent drops every reply.
	Silent bool

	// Truncate sends only the first Truncate bytes of a status frame.
	Truncate int

	// HeaderDelay holds back the whole status frame.
	HeaderDelay time.Duration

	// PayloadDelay holds back everything after the status header, on top of HeaderDelay.
	PayloadDelay time.Duration

	CorruptChecksum bool
	WrongSTX        bool
	WrongModel      bool
	WrongTempModel  bool
}

type pending struct {
	at time.Time
	b  byte
}

// Device is a simulated amplifier. It is safe for concurrent use.
type Device struct {
	mx          sync.Mutex
	clock       z906.Clock
	faults      Faults
	frame       []byte
	temperature byte
	rx          []pending
	writes      [][]byte
	rejected    int
}

type Option func(*Device)

func WithClock(clock z906.Clock) Option {
	return func(d *Device) {
		d.clock = clock
	}
}

func WithFaults(faults Faults) Option {
	return func(d *Device) {
		d.faults = faults
	}
}

// WithPayload replaces the status payload (everything between the length
// byte and the checksum). It panics if the payload does not fit a frame.
func WithPayload(payload []byte) Option {
	return func(d *Device) {
		frame, err := amp.NewStatusFrame(payload)
		if err != nil {
			panic(fmt.Sprintf("sim: status payload: %v", err))
		}
		d.frame = frame
	}
}

// DefaultPayload is the status payload of an amplifier in standby on input 1.
func DefaultPayload() []byte {
	payload := make([]byte, amp.StatusFrameLength-4)
	set := func(f amp.Field, v byte) { payload[int(f)-3] = v }
	set(amp.MainLevel, 20)
	set(amp.RearLevel, 25)
	set(amp.CenterLevel, 30)
	set(amp.SubLevel, 15)
	set(amp.FxInput2, byte(amp.Effect3D))
	set(amp.FxInputAux, byte(amp.Effect3D))
	set(amp.VersionA, 1)
	set(amp.VersionB, 0)
	set(amp.VersionC, 4)
	set(amp.Standby, 1)
	set(amp.AutoStandby, 1)
	return payload
}

func NewDevice(opts ...Option) *Device {
	frame, _ := amp.NewStatusFrame(DefaultPayload())
	d := &Device{
		clock:       z906.SystemClock,
		frame:       frame,
		temperature: 38,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Device) SetFaults(faults Faults) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.faults = faults
}

func (d *Device) SetTemperature(t byte) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.temperature = t
}

// SetField overwrites one byte of the device status.
func (d *Device) SetField(f amp.Field, v byte) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.frame[f] = v
}

// Field returns one byte of the device status.
func (d *Device) Field(f amp.Field) byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.frame[f]
}

// Frame returns the sealed status frame the device would send.
func (d *Device) Frame() []byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	frame := slices.Clone(d.frame)
	amp.Seal(frame)
	return frame
}

// Writes returns every buffer the host wrote, in order.
func (d *Device) Writes() [][]byte {
	d.mx.Lock()
	defer d.mx.Unlock()
	return slices.Clone(d.writes)
}

// Rejected counts status frames refused because they did not validate.
func (d *Device) Rejected() int {
	d.mx.Lock()
	defer d.mx.Unlock()
	return d.rejected
}

// Inject queues bytes toward the host as if the amplifier sent them unprompted.
func (d *Device) Inject(b ...byte) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.queue(0, b...)
}

func (d *Device) Write(p []byte) (int, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.writes = append(d.writes, slices.Clone(p))
	if len(p) > 1 && p[0] == amp.STX {
		d.adopt(p)
		return len(p), nil
	}
	for _, b := range p {
		d.handle(amp.Command(b))
	}
	return len(p), nil
}

func (d *Device) Flush() error {
	return nil
}

func (d *Device) Available() (int, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	now := d.clock.Now()
	n := 0
	for _, p := range d.rx {
		if p.at.After(now) {
			break
		}
		n++
	}
	return n, nil
}

func (d *Device) ReadByte() (byte, error) {
	d.mx.Lock()
	defer d.mx.Unlock()
	if len(d.rx) == 0 || d.rx[0].at.After(d.clock.Now()) {
		return 0, ErrNoData
	}
	b := d.rx[0].b
	d.rx = d.rx[1:]
	return b, nil
}

func (d *Device) queue(delay time.Duration, b ...byte) {
	if d.faults.Silent {
		return
	}
	at := d.clock.Now().Add(delay)
	for _, v := range b {
		d.rx = append(d.rx, pending{at: at, b: v})
	}
}

func (d *Device) ack(cmd amp.Command) {
	d.queue(0, byte(cmd))
}

func (d *Device) adopt(frame []byte) {
	if err := amp.Validate(frame); err != nil {
		d.rejected++
		return
	}
	d.frame = slices.Clone(frame)
	d.ack(amp.Command(frame[0]))
}

func (d *Device) handle(cmd amp.Command) {
	switch cmd {
	case amp.GetStatus:
		d.sendStatus()
		return
	case amp.GetTemperature:
		d.sendTemperature()
		return
	case amp.PowerOn:
		d.frame[amp.Standby] = 0
	case amp.PowerOff:
		d.frame[amp.Standby] = 1
	case amp.LevelMainUp, amp.LevelMainDown:
		d.step(amp.MainLevel, cmd == amp.LevelMainUp)
	case amp.LevelRearUp, amp.LevelRearDown:
		d.step(amp.RearLevel, cmd == amp.LevelRearUp)
	case amp.LevelCenterUp, amp.LevelCenterDown:
		d.step(amp.CenterLevel, cmd == amp.LevelCenterUp)
	case amp.LevelSubUp, amp.LevelSubDown:
		d.step(amp.SubLevel, cmd == amp.LevelSubUp)
	case amp.Command(amp.Effect3D), amp.Command(amp.Effect41), amp.Command(amp.Effect21), amp.Command(amp.EffectNo):
		d.frame[fxField(int(d.frame[amp.CurrentInput]))] = byte(cmd)
	default:
		if i := slices.Index(amp.Inputs, amp.Input(cmd)); i >= 0 {
			d.frame[amp.CurrentInput] = byte(i)
		}
	}
	d.ack(cmd)
}

// fxField is the effect slot of the input at front panel index i.
func fxField(i int) amp.Field {
	return []amp.Field{amp.FxInput1, amp.FxInput2, amp.FxInput3, amp.FxInput4, amp.FxInput5, amp.FxInputAux}[i%len(amp.Inputs)]
}

func (d *Device) step(f amp.Field, up bool) {
	switch {
	case up && d.frame[f] < amp.MaxVolume:
		d.frame[f]++
	case !up && d.frame[f] > 0:
		d.frame[f]--
	}
}

func (d *Device) sendStatus() {
	frame := slices.Clone(d.frame)
	amp.Seal(frame)
	if d.faults.CorruptChecksum {
		frame[len(frame)-1] ^= 0x01
	}
	if d.faults.WrongSTX {
		frame[0] = ^amp.STX
	}
	if d.faults.WrongModel {
		frame[1] = amp.ModelTemperature
	}
	if d.faults.Truncate > 0 && d.faults.Truncate < len(frame) {
		frame = frame[:d.faults.Truncate]
	}
	header := min(3, len(frame))
	d.queue(d.faults.HeaderDelay, frame[:header]...)
	d.queue(d.faults.HeaderDelay+d.faults.PayloadDelay, frame[header:]...)
}

func (d *Device) sendTemperature() {
	frame := make([]byte, amp.TempFrameLength)
	frame[0] = amp.STX
	frame[1] = amp.TempFrameLength - 4
	frame[2] = amp.ModelTemperature
	if d.faults.WrongTempModel {
		frame[2] = amp.ModelStatus
	}
	frame[7] = d.temperature
	amp.Seal(frame)
	d.queue(0, frame...)
}
