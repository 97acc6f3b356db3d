// Package endpoint maps textual paths such as "volume/main/set" to amplifier
// operations.
package endpoint

import (
	"github.com/mklimuk/z906/amp"
)

type Kind int

const (
	SelectInput Kind = iota
	RunCommand
	SetValue
	GetValue
	GetBoolean
	RunFunction
)

func (k Kind) String() string {
	switch k {
	case SelectInput:
		return "select-input"
	case RunCommand:
		return "run-command"
	case SetValue:
		return "set-value"
	case GetValue:
		return "get-value"
	case GetBoolean:
		return "get-boolean"
	case RunFunction:
		return "run-function"
	default:
		return "unknown"
	}
}

// Functions addressed by RunFunction endpoints.
const (
	FuncTemperature byte = iota + 1
	FuncPowerOn
	FuncPowerOff
)

type Endpoint struct {
	Path   string
	Kind   Kind
	Action byte
	Help   string
}

// Table lists every endpoint known to the router.
var Table = []Endpoint{
	{"input", GetValue, byte(amp.CurrentInput), "currently selected input"},
	{"input/1", SelectInput, byte(amp.Input1), "switch to the TRS 5.1 input"},
	{"input/2", SelectInput, byte(amp.Input2), "switch to the RCA 2.0 input"},
	{"input/3", SelectInput, byte(amp.Input3), "switch to the optical 1 input"},
	{"input/4", SelectInput, byte(amp.Input4), "switch to the optical 2 input"},
	{"input/5", SelectInput, byte(amp.Input5), "switch to the coaxial input"},
	{"input/aux", SelectInput, byte(amp.InputAux), "switch to the aux input"},
	{"input/enable", RunCommand, byte(amp.NoBlockInputs), "enable signal input"},
	{"input/disable", RunCommand, byte(amp.BlockInputs), "disable signal input"},

	{"volume/main", GetValue, byte(amp.MainLevel), "main level"},
	{"volume/main/set", SetValue, byte(amp.MainLevel), "set the main level (0-255)"},
	{"volume/main/up", RunCommand, byte(amp.LevelMainUp), "raise the main level one step"},
	{"volume/main/down", RunCommand, byte(amp.LevelMainDown), "lower the main level one step"},

	{"volume/subwoofer", GetValue, byte(amp.SubLevel), "subwoofer level"},
	{"volume/subwoofer/set", SetValue, byte(amp.SubLevel), "set the subwoofer level (0-255)"},
	{"volume/subwoofer/up", RunCommand, byte(amp.LevelSubUp), "raise the subwoofer level one step"},
	{"volume/subwoofer/down", RunCommand, byte(amp.LevelSubDown), "lower the subwoofer level one step"},

	{"volume/center", GetValue, byte(amp.CenterLevel), "center level"},
	{"volume/center/set", SetValue, byte(amp.CenterLevel), "set the center level (0-255)"},
	{"volume/center/up", RunCommand, byte(amp.LevelCenterUp), "raise the center level one step"},
	{"volume/center/down", RunCommand, byte(amp.LevelCenterDown), "lower the center level one step"},

	{"volume/rear", GetValue, byte(amp.RearLevel), "rear level"},
	{"volume/rear/set", SetValue, byte(amp.RearLevel), "set the rear level (0-255)"},
	{"volume/rear/up", RunCommand, byte(amp.LevelRearUp), "raise the rear level one step"},
	{"volume/rear/down", RunCommand, byte(amp.LevelRearDown), "lower the rear level one step"},

	{"input/decode/on", RunCommand, byte(amp.SelectEffect51), "enable 5.1 decoding"},
	{"input/decode/off", RunCommand, byte(amp.DisableEffect51), "disable 5.1 decoding"},

	{"input/effect/3d", RunCommand, byte(amp.Effect3D), "3D effect on the current input"},
	{"input/effect/4.1", RunCommand, byte(amp.Effect41), "4.1 effect on the current input"},
	{"input/effect/2.1", RunCommand, byte(amp.Effect21), "2.1 effect on the current input"},
	{"input/effect/off", RunCommand, byte(amp.EffectNo), "no effect on the current input"},

	{"save", RunCommand, byte(amp.EEPROMSave), "save the settings to EEPROM"},
	{"mute/on", RunCommand, byte(amp.MuteOn), "mute"},
	{"mute/off", RunCommand, byte(amp.MuteOff), "unmute"},
	{"temperature", RunFunction, FuncTemperature, "main temperature sensor reading"},
	{"version", GetValue, byte(amp.Version), "firmware version"},
	{"power", GetBoolean, byte(amp.Power), "1 when the amplifier is on"},
	{"power/on", RunFunction, FuncPowerOn, "turn the amplifier on"},
	{"power/off", RunFunction, FuncPowerOff, "turn the amplifier off"},
}
