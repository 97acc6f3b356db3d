package endpoint

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mklimuk/z906/amp"
)

// MockController shadows mock.Mock.On with the power on method, so expectations
// are registered through m.Mock.On.
type MockController struct {
	mock.Mock
}

func (m *MockController) On(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockController) Off(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockController) Input(ctx context.Context, in amp.Input, fx amp.Effect) error {
	return m.Called(ctx, in, fx).Error(0)
}

func (m *MockController) Cmd(ctx context.Context, cmd amp.Command) (byte, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(byte), args.Error(1)
}

func (m *MockController) Set(ctx context.Context, f amp.Field, value byte) error {
	return m.Called(ctx, f, value).Error(0)
}

func (m *MockController) Request(ctx context.Context, f amp.Field) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockController) MainSensor(ctx context.Context) (byte, error) {
	args := m.Called(ctx)
	return args.Get(0).(byte), args.Error(1)
}

func TestTable_UniquePaths(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range Table {
		assert.False(t, seen[e.Path], "duplicate path %s", e.Path)
		seen[e.Path] = true
		assert.NotEmpty(t, e.Help, e.Path)
	}
}

func TestRouter_Handle(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		path     string
		param    string
		setup    func(m *MockController)
		expected int
	}{
		{"input/2", "", func(m *MockController) {
			m.Mock.On("Input", ctx, amp.Input2, amp.EffectDefault).Return(nil)
		}, 2},
		{"input/aux", "", func(m *MockController) {
			m.Mock.On("Input", ctx, amp.InputAux, amp.EffectDefault).Return(nil)
		}, 6},
		{"volume/main/up", "", func(m *MockController) {
			m.Mock.On("Cmd", ctx, amp.LevelMainUp).Return(byte(0x08), nil)
		}, 8},
		{"input/effect/4.1", "", func(m *MockController) {
			m.Mock.On("Cmd", ctx, amp.Command(amp.Effect41)).Return(byte(0x15), nil)
		}, 0x15},
		{"mute/on", "", func(m *MockController) {
			m.Mock.On("Cmd", ctx, amp.MuteOn).Return(byte(0x38), nil)
		}, 0x38},
		{"volume/rear/set", "200", func(m *MockController) {
			m.Mock.On("Set", ctx, amp.RearLevel, byte(200)).Return(nil)
		}, 200},
		{"volume/center", "", func(m *MockController) {
			m.Mock.On("Request", ctx, amp.CenterLevel).Return(177, nil)
		}, 177},
		{"input", "", func(m *MockController) {
			m.Mock.On("Request", ctx, amp.CurrentInput).Return(3, nil)
		}, 3},
		{"version", "", func(m *MockController) {
			m.Mock.On("Request", ctx, amp.Version).Return(104, nil)
		}, 104},
		{"power", "", func(m *MockController) {
			m.Mock.On("Request", ctx, amp.Power).Return(1, nil)
		}, 1},
		{"temperature", "", func(m *MockController) {
			m.Mock.On("MainSensor", ctx).Return(byte(41), nil)
		}, 41},
		{"power/on", "", func(m *MockController) {
			m.Mock.On("On", ctx).Return(nil)
		}, 1},
		{"/power/off/", "", func(m *MockController) {
			m.Mock.On("Off", ctx).Return(nil)
		}, 0},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			m := &MockController{}
			test.setup(m)

			v, err := NewRouter(m).Handle(ctx, test.path, test.param)

			assert.NoError(t, err)
			assert.Equal(t, test.expected, v)
			m.AssertExpectations(t)
		})
	}
}

func TestRouter_Handle_Errors(t *testing.T) {
	ctx := context.Background()
	m := &MockController{}
	r := NewRouter(m)

	_, err := r.Handle(ctx, "volume/surround", "")
	assert.ErrorIs(t, err, ErrUnknownEndpoint)

	for _, param := range []string{"", "abc", "-1", "256"} {
		v, err := r.Handle(ctx, "volume/main/set", param)
		assert.ErrorIs(t, err, ErrInvalidParam, param)
		assert.Zero(t, v)
	}
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_Handle_DriverFailure(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		path  string
		param string
		setup func(m *MockController)
	}{
		{"input/1", "", func(m *MockController) {
			m.Mock.On("Input", ctx, amp.Input1, amp.EffectDefault).Return(amp.ErrTimeout)
		}},
		{"save", "", func(m *MockController) {
			m.Mock.On("Cmd", ctx, amp.EEPROMSave).Return(byte(0), amp.ErrTimeout)
		}},
		{"volume/main/set", "10", func(m *MockController) {
			m.Mock.On("Set", ctx, amp.MainLevel, byte(10)).Return(amp.ErrInvalidFrame)
		}},
		{"volume/main", "", func(m *MockController) {
			m.Mock.On("Request", ctx, amp.MainLevel).Return(0, amp.ErrInvalidFrame)
		}},
		{"temperature", "", func(m *MockController) {
			m.Mock.On("MainSensor", ctx).Return(byte(0), amp.ErrTimeout)
		}},
		{"power/on", "", func(m *MockController) {
			m.Mock.On("On", ctx).Return(amp.ErrTimeout)
		}},
	}
	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			m := &MockController{}
			test.setup(m)

			v, err := NewRouter(m).Handle(ctx, test.path, test.param)

			assert.Error(t, err)
			assert.True(t, errors.Is(err, amp.ErrTimeout) || errors.Is(err, amp.ErrInvalidFrame))
			assert.Zero(t, v)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "set-value", SetValue.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
