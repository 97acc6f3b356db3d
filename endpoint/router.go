package endpoint

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/mklimuk/z906/amp"
)

var ErrUnknownEndpoint = errors.New("unknown endpoint")
var ErrInvalidParam = errors.New("invalid parameter")

// Controller is the set of amplifier operations reachable through endpoints.
// *amp.Z906 implements it.
type Controller interface {
	On(ctx context.Context) error
	Off(ctx context.Context) error
	Input(ctx context.Context, in amp.Input, fx amp.Effect) error
	Cmd(ctx context.Context, cmd amp.Command) (byte, error)
	Set(ctx context.Context, f amp.Field, value byte) error
	Request(ctx context.Context, f amp.Field) (int, error)
	MainSensor(ctx context.Context) (byte, error)
}

var _ Controller = &amp.Z906{}

type Router struct {
	ctrl   Controller
	byPath map[string]Endpoint
}

func NewRouter(ctrl Controller) *Router {
	byPath := make(map[string]Endpoint, len(Table))
	for _, e := range Table {
		byPath[e.Path] = e
	}
	return &Router{ctrl: ctrl, byPath: byPath}
}

func (r *Router) Lookup(path string) (Endpoint, bool) {
	e, ok := r.byPath[strings.Trim(path, "/")]
	return e, ok
}

// Handle runs the endpoint at path. param is only read by SetValue endpoints
// and must be a number in 0..255.
//
// The result is the selected input for SelectInput, the acknowledgment byte for
// RunCommand, the written value for SetValue, the decoded value for GetValue,
// 1/0 for GetBoolean and the function result for RunFunction (the sensor
// reading, 1 after power on, 0 after power off). It is 0 whenever err is not nil.
func (r *Router) Handle(ctx context.Context, path, param string) (int, error) {
	e, ok := r.Lookup(path)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEndpoint, path)
	}
	switch e.Kind {
	case SelectInput:
		in := amp.Input(e.Action)
		if err := r.ctrl.Input(ctx, in, amp.EffectDefault); err != nil {
			return 0, err
		}
		return slices.Index(amp.Inputs, in) + 1, nil
	case RunCommand:
		reply, err := r.ctrl.Cmd(ctx, amp.Command(e.Action))
		if err != nil {
			return 0, err
		}
		return int(reply), nil
	case SetValue:
		v, err := parseParam(param)
		if err != nil {
			return 0, err
		}
		if err := r.ctrl.Set(ctx, amp.Field(e.Action), v); err != nil {
			return 0, err
		}
		return int(v), nil
	case GetValue, GetBoolean:
		return r.ctrl.Request(ctx, amp.Field(e.Action))
	case RunFunction:
		return r.run(ctx, e.Action)
	}
	return 0, fmt.Errorf("%w: %q has kind %s", ErrUnknownEndpoint, path, e.Kind)
}

func (r *Router) run(ctx context.Context, fn byte) (int, error) {
	switch fn {
	case FuncTemperature:
		t, err := r.ctrl.MainSensor(ctx)
		return int(t), err
	case FuncPowerOn:
		if err := r.ctrl.On(ctx); err != nil {
			return 0, err
		}
		return 1, nil
	case FuncPowerOff:
		return 0, r.ctrl.Off(ctx)
	}
	return 0, fmt.Errorf("%w: function %d", ErrUnknownEndpoint, fn)
}

func parseParam(param string) (byte, error) {
	if param == "" {
		return 0, fmt.Errorf("%w: value is required", ErrInvalidParam)
	}
	v, err := strconv.Atoi(param)
	if err != nil || v < 0 || v > 0xFF {
		return 0, fmt.Errorf("%w: %q is not a number in 0..255", ErrInvalidParam, param)
	}
	return byte(v), nil
}
