package amp_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/devctx"
	"github.com/mklimuk/z906/sim"
)

func newTestDriver(devOpts []sim.Option, opts ...amp.Option) (*amp.Z906, *sim.Device, *sim.Clock) {
	clock := sim.NewClock()
	dev := sim.NewDevice(append([]sim.Option{sim.WithClock(clock)}, devOpts...)...)
	z := amp.New(dev, append([]amp.Option{amp.WithClock(clock)}, opts...)...)
	return z, dev, clock
}

func frameWrites(dev *sim.Device) [][]byte {
	var frames [][]byte
	for _, w := range dev.Writes() {
		if len(w) > 1 && w[0] == amp.STX {
			frames = append(frames, w)
		}
	}
	return frames
}

func TestZ906_Refresh(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	dev.SetField(amp.CurrentInput, 2)

	assert.NoError(t, z.Refresh(context.Background()))

	st := z.Status()
	assert.True(t, st.Valid())
	assert.Equal(t, dev.Frame(), st.Bytes())
	in, err := st.CurrentInput()
	assert.NoError(t, err)
	assert.Equal(t, 3, in)
}

func TestZ906_Refresh_ShortPayload(t *testing.T) {
	z, _, _ := newTestDriver([]sim.Option{sim.WithPayload([]byte{0x10, 0x11, 0x12, 0x13})})

	assert.NoError(t, z.Refresh(context.Background()))

	st := z.Status()
	assert.Equal(t, 8, st.Len())
	main, err := st.Field(amp.MainLevel)
	assert.NoError(t, err)
	assert.Equal(t, byte(0x10), main)
	_, err = st.CurrentInput()
	assert.ErrorIs(t, err, amp.ErrFieldRange)
}

func TestZ906_Refresh_InvalidFrame(t *testing.T) {
	tests := []struct {
		name   string
		faults sim.Faults
	}{
		{"checksum", sim.Faults{CorruptChecksum: true}},
		{"stx", sim.Faults{WrongSTX: true}},
		{"model", sim.Faults{WrongModel: true}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(test.faults)})
			ctx := context.Background()

			assert.ErrorIs(t, z.Refresh(ctx), amp.ErrInvalidFrame)
			assert.False(t, z.Status().Valid())

			v, err := z.Request(ctx, amp.CurrentInput)
			assert.ErrorIs(t, err, amp.ErrInvalidFrame)
			assert.Zero(t, v)
		})
	}
}

func TestZ906_Refresh_Timeout(t *testing.T) {
	for _, poll := range []time.Duration{time.Millisecond, 7 * time.Millisecond, 100 * time.Millisecond} {
		t.Run(poll.String(), func(t *testing.T) {
			z, _, clock := newTestDriver(
				[]sim.Option{sim.WithFaults(sim.Faults{Silent: true})},
				amp.WithDeadtime(0),
				amp.WithPollInterval(poll),
			)
			start := clock.Now()

			err := z.Refresh(context.Background())

			assert.ErrorIs(t, err, amp.ErrTimeout)
			elapsed := clock.Now().Sub(start)
			assert.GreaterOrEqual(t, elapsed, amp.DefaultTimeout)
			assert.LessOrEqual(t, elapsed, amp.DefaultTimeout+poll)
			assert.False(t, z.Status().Valid())
		})
	}
}

func TestZ906_Refresh_SharedBudget(t *testing.T) {
	tests := []struct {
		name   string
		faults sim.Faults
		err    error
	}{
		{"payload in time", sim.Faults{PayloadDelay: 600 * time.Millisecond}, nil},
		{"payload late", sim.Faults{PayloadDelay: 1500 * time.Millisecond}, amp.ErrTimeout},
		{"header and payload in time", sim.Faults{HeaderDelay: 400 * time.Millisecond, PayloadDelay: 400 * time.Millisecond}, nil},
		// each stage alone fits the timeout, together they do not
		{"stages exceed budget", sim.Faults{HeaderDelay: 600 * time.Millisecond, PayloadDelay: 600 * time.Millisecond}, amp.ErrTimeout},
		{"truncated", sim.Faults{Truncate: 10}, amp.ErrTimeout},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(test.faults)})

			err := z.Refresh(context.Background())

			if test.err == nil {
				assert.NoError(t, err)
				assert.True(t, z.Status().Valid())
				return
			}
			assert.ErrorIs(t, err, test.err)
			assert.False(t, z.Status().Valid())
		})
	}
}

func TestZ906_Refresh_PartialFrameKept(t *testing.T) {
	z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(sim.Faults{PayloadDelay: 2 * time.Second})})

	assert.ErrorIs(t, z.Refresh(context.Background()), amp.ErrTimeout)

	st := z.Status()
	assert.False(t, st.Valid())
	assert.Equal(t, []byte{amp.STX, amp.ModelStatus, amp.StatusFrameLength - 4}, st.Bytes())
}

func TestZ906_Refresh_HeaderTimeoutKeepsFrame(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	require.NoError(t, z.Refresh(context.Background()))
	before := z.Status().Bytes()
	require.Len(t, before, amp.StatusFrameLength)

	dev.SetFaults(sim.Faults{Silent: true})
	err := z.Refresh(context.Background())

	assert.ErrorIs(t, err, amp.ErrTimeout)
	st := z.Status()
	assert.False(t, st.Valid())
	assert.Equal(t, amp.StatusFrameLength, st.Len())
	assert.Equal(t, before, st.Bytes())
}

func TestZ906_Refresh_DrainsStrayBytes(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	dev.Inject(0xDE, 0xAD, amp.STX)

	assert.NoError(t, z.Refresh(context.Background()))
	assert.Equal(t, dev.Frame(), z.Status().Bytes())
}

func TestZ906_Refresh_Canceled(t *testing.T) {
	z, _, clock := newTestDriver([]sim.Option{sim.WithFaults(sim.Faults{Silent: true})}, amp.WithDeadtime(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := clock.Now()

	err := z.Refresh(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, clock.Now().Sub(start), amp.DefaultTimeout)
}

func TestZ906_Set(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	ctx := context.Background()
	assert.NoError(t, z.Refresh(ctx))
	before := z.Status().Bytes()

	assert.NoError(t, z.Set(ctx, amp.MainLevel, 128))

	frames := frameWrites(dev)
	assert.Len(t, frames, 1)
	written := frames[0]
	assert.NoError(t, amp.Validate(written))
	assert.Len(t, written, len(before))
	for i := range written {
		switch i {
		case int(amp.MainLevel):
			assert.Equal(t, amp.EncodeLevel(128), written[i])
		case len(written) - 1:
		default:
			assert.Equal(t, before[i], written[i], "byte %d", i)
		}
	}
	assert.Equal(t, byte(21), dev.Field(amp.MainLevel))
	assert.Zero(t, dev.Rejected())
}

func TestZ906_Set_FullScale(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	ctx := context.Background()

	assert.NoError(t, z.Set(ctx, amp.MainLevel, 255))

	assert.Equal(t, byte(amp.MaxVolume), dev.Field(amp.MainLevel))
	v, err := z.Request(ctx, amp.MainLevel)
	assert.NoError(t, err)
	assert.Equal(t, 255, v)
}

func TestZ906_Set_RawField(t *testing.T) {
	z, dev, _ := newTestDriver(nil)

	assert.NoError(t, z.Set(context.Background(), amp.AutoStandby, 0))
	assert.Zero(t, dev.Field(amp.AutoStandby))
}

func TestZ906_Set_AbortsOnFailedRefresh(t *testing.T) {
	tests := []struct {
		name   string
		faults sim.Faults
		err    error
	}{
		{"silent", sim.Faults{Silent: true}, amp.ErrTimeout},
		{"corrupt", sim.Faults{CorruptChecksum: true}, amp.ErrInvalidFrame},
		{"truncated", sim.Faults{Truncate: 12}, amp.ErrTimeout},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			z, dev, _ := newTestDriver([]sim.Option{sim.WithFaults(test.faults)})
			before := dev.Field(amp.MainLevel)

			err := z.Set(context.Background(), amp.MainLevel, 200)

			assert.ErrorIs(t, err, test.err)
			assert.Empty(t, frameWrites(dev))
			assert.Equal(t, before, dev.Field(amp.MainLevel))
		})
	}
}

func TestZ906_Set_FieldRange(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	ctx := context.Background()

	assert.ErrorIs(t, z.Set(ctx, amp.Field(0x01), 5), amp.ErrFieldRange)
	assert.ErrorIs(t, z.Set(ctx, amp.Version, 5), amp.ErrFieldRange)
	assert.ErrorIs(t, z.Set(ctx, amp.Field(amp.StatusFrameLength-1), 5), amp.ErrFieldRange)
	assert.Empty(t, frameWrites(dev))
}

func TestZ906_Request(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	ctx := context.Background()

	tests := []struct {
		field    amp.Field
		expected int
	}{
		{amp.Version, 104},
		{amp.CurrentInput, 1},
		{amp.Power, 0},
		{amp.MainLevel, 118},
		{amp.SubLevel, 88},
		{amp.Standby, 1},
		{amp.FxInput2, int(amp.Effect3D)},
	}
	for _, test := range tests {
		t.Run(test.field.String(), func(t *testing.T) {
			v, err := z.Request(ctx, test.field)
			assert.NoError(t, err)
			assert.Equal(t, test.expected, v)
		})
	}

	assert.NoError(t, z.On(ctx))
	v, err := z.Request(ctx, amp.Power)
	assert.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Zero(t, dev.Field(amp.Standby))
}

func TestZ906_Request_Silent(t *testing.T) {
	z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(sim.Faults{Silent: true})})

	v, err := z.Request(context.Background(), amp.Version)

	assert.ErrorIs(t, err, amp.ErrTimeout)
	assert.Zero(t, v)
}

func TestZ906_OnOff(t *testing.T) {
	z, dev, clock := newTestDriver(nil)
	ctx := context.Background()
	start := clock.Now()

	assert.NoError(t, z.On(ctx))
	assert.Zero(t, dev.Field(amp.Standby))
	assert.Equal(t, 2*amp.DefaultDeadtime, clock.Now().Sub(start))
	n, _ := dev.Available()
	assert.Zero(t, n)

	assert.NoError(t, z.Off(ctx))
	assert.Equal(t, byte(1), dev.Field(amp.Standby))
	n, _ = dev.Available()
	assert.Zero(t, n)

	assert.Equal(t, [][]byte{
		{byte(amp.PowerOn)},
		{byte(amp.PowerOff)},
		{byte(amp.ResetPowerUp), 0x37, byte(amp.EEPROMSave)},
	}, dev.Writes())
}

func TestZ906_Input(t *testing.T) {
	tests := []struct {
		input  amp.Input
		effect amp.Effect
		sent   []byte
		index  byte
		slot   amp.Field
	}{
		{amp.Input2, amp.EffectDefault, []byte{0x38, 0x05, 0x14, 0x39}, 1, amp.FxInput2},
		{amp.InputAux, amp.EffectDefault, []byte{0x38, 0x07, 0x14, 0x39}, 5, amp.FxInputAux},
		{amp.Input3, amp.EffectDefault, []byte{0x38, 0x03, 0x35, 0x39}, 2, amp.FxInput3},
		{amp.Input1, amp.Effect41, []byte{0x38, 0x02, 0x15, 0x39}, 0, amp.FxInput1},
		{amp.Input5, amp.Effect21, []byte{0x38, 0x06, 0x16, 0x39}, 4, amp.FxInput5},
	}
	for _, test := range tests {
		t.Run(test.input.String()+"/"+test.effect.String(), func(t *testing.T) {
			z, dev, _ := newTestDriver(nil)

			assert.NoError(t, z.Input(context.Background(), test.input, test.effect))

			assert.Equal(t, [][]byte{test.sent}, dev.Writes())
			assert.Equal(t, test.index, dev.Field(amp.CurrentInput))
			assert.Equal(t, test.sent[2], dev.Field(test.slot))
			n, _ := dev.Available()
			assert.Zero(t, n)
		})
	}
}

func TestZ906_Cmd(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	ctx := context.Background()

	reply, err := z.Cmd(ctx, amp.LevelMainUp)
	assert.NoError(t, err)
	assert.Equal(t, byte(amp.LevelMainUp), reply)
	assert.Equal(t, byte(21), dev.Field(amp.MainLevel))

	assert.NoError(t, z.Exec(ctx, amp.LevelSubDown))
	assert.Equal(t, byte(14), dev.Field(amp.SubLevel))
	n, _ := dev.Available()
	assert.Zero(t, n)
}

func TestZ906_Cmd_Timeout(t *testing.T) {
	z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(sim.Faults{Silent: true})})

	reply, err := z.Cmd(context.Background(), amp.MuteOn)

	assert.ErrorIs(t, err, amp.ErrTimeout)
	assert.Zero(t, reply)
}

func TestZ906_MainSensor(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	dev.SetTemperature(41)

	v, err := z.MainSensor(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, byte(41), v)
}

func TestZ906_MainSensor_Errors(t *testing.T) {
	tests := []struct {
		name   string
		faults sim.Faults
		err    error
	}{
		{"wrong model", sim.Faults{WrongTempModel: true}, amp.ErrInvalidFrame},
		{"silent", sim.Faults{Silent: true}, amp.ErrTimeout},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(test.faults)})

			v, err := z.MainSensor(context.Background())

			assert.ErrorIs(t, err, test.err)
			assert.Zero(t, v)
		})
	}
}

func TestZ906_PrintStatus(t *testing.T) {
	z, dev, _ := newTestDriver(nil)
	var out bytes.Buffer

	assert.NoError(t, z.PrintStatus(context.Background(), &out))

	assert.Equal(t, amp.FormatFrame(dev.Frame())+"\n", out.String())
	assert.True(t, strings.HasPrefix(out.String(), "AA 0A 14 14 19 1E 0F 00"))
}

func TestZ906_PrintStatus_PartialFrame(t *testing.T) {
	z, _, _ := newTestDriver([]sim.Option{sim.WithFaults(sim.Faults{PayloadDelay: 2 * time.Second})})
	var out bytes.Buffer

	err := z.PrintStatus(context.Background(), &out)

	assert.ErrorIs(t, err, amp.ErrTimeout)
	assert.Equal(t, "AA 0A 14\n", out.String())
}

func TestZ906_VerboseLogging(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	z, dev, _ := newTestDriver(nil, amp.WithLogger(logger))
	dev.Inject(0x01)

	assert.NoError(t, z.Refresh(context.Background()))
	assert.NotContains(t, out.String(), "msg=tx")

	assert.NoError(t, z.Refresh(devctx.SetVerbose(context.Background(), true)))
	assert.Contains(t, out.String(), "msg=tx")
	assert.Contains(t, out.String(), "msg=rx")
	assert.Contains(t, out.String(), "device=z906")
}

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Write(p []byte) (int, error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockTransport) Flush() error {
	return m.Called().Error(0)
}

func (m *MockTransport) Available() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockTransport) ReadByte() (byte, error) {
	args := m.Called()
	return args.Get(0).(byte), args.Error(1)
}

func TestZ906_TransportErrors(t *testing.T) {
	broken := errors.New("broken")
	tests := []struct {
		name  string
		setup func(m *MockTransport)
		err   error
		msg   string
	}{
		{"write", func(m *MockTransport) {
			m.On("Available").Return(0, nil)
			m.On("Write", mock.Anything).Return(0, broken)
		}, broken, "write failed"},
		{"short write", func(m *MockTransport) {
			m.On("Available").Return(0, nil)
			m.On("Write", mock.Anything).Return(0, nil)
		}, nil, "short write"},
		{"flush", func(m *MockTransport) {
			m.On("Available").Return(0, nil)
			m.On("Write", mock.Anything).Return(1, nil)
			m.On("Flush").Return(broken)
		}, broken, "flush"},
		{"available", func(m *MockTransport) {
			m.On("Available").Return(0, broken)
		}, broken, "receive queue"},
		{"drain", func(m *MockTransport) {
			m.On("Available").Return(1, nil)
			m.On("ReadByte").Return(byte(0), broken)
		}, broken, "drain"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			m := &MockTransport{}
			test.setup(m)
			z := amp.New(m, amp.WithClock(sim.NewClock()))

			err := z.On(context.Background())

			assert.ErrorContains(t, err, test.msg)
			if test.err != nil {
				assert.ErrorIs(t, err, test.err)
			}
		})
	}
}
