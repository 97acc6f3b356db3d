package amp

import "fmt"

// Command is a single byte instruction understood by the amplifier.
type Command byte

// Single byte commands. Most only return a short acknowledgment.
const (
	LevelMainUp     Command = 0x08
	LevelMainDown   Command = 0x09
	LevelSubUp      Command = 0x0A
	LevelSubDown    Command = 0x0B
	LevelCenterUp   Command = 0x0C
	LevelCenterDown Command = 0x0D
	LevelRearUp     Command = 0x0E
	LevelRearDown   Command = 0x0F

	PowerOff Command = 0x10
	PowerOn  Command = 0x11

	SelectEffect51  Command = 0x12
	DisableEffect51 Command = 0x13

	BlockInputs    Command = 0x22
	ResetPowerUp   Command = 0x30
	NoBlockInputs  Command = 0x33
	EEPROMSave     Command = 0x36
	MuteOn         Command = 0x38
	MuteOff        Command = 0x39
	GetTemperature Command = 0x25
	GetPowerUpTime Command = 0x31
	GetStatus      Command = 0x34
)

// resetPowerUpArg follows ResetPowerUp in the power off sequence.
const resetPowerUpArg byte = 0x37

// Input is a physical input selector. The values double as select commands.
type Input byte

const (
	Input1   Input = 0x02 // TRS 5.1
	Input2   Input = 0x05 // RCA 2.0
	Input3   Input = 0x03 // optical 1
	Input4   Input = 0x04 // optical 2
	Input5   Input = 0x06 // coaxial
	InputAux Input = 0x07
)

// Inputs lists the selectors in front panel order.
var Inputs = []Input{Input1, Input2, Input3, Input4, Input5, InputAux}

// InputByNumber maps a 1-based front panel number (6 is aux) to its selector.
func InputByNumber(n int) (Input, error) {
	if n < 1 || n > len(Inputs) {
		return 0, fmt.Errorf("input %d out of range 1..%d", n, len(Inputs))
	}
	return Inputs[n-1], nil
}

func (i Input) String() string {
	switch i {
	case Input1:
		return "input1"
	case Input2:
		return "input2"
	case Input3:
		return "input3"
	case Input4:
		return "input4"
	case Input5:
		return "input5"
	case InputAux:
		return "aux"
	default:
		return fmt.Sprintf("input(%#02x)", byte(i))
	}
}

// Effect is a spatial effect applied to the selected input.
type Effect byte

const (
	Effect3D Effect = 0x14
	Effect41 Effect = 0x15
	Effect21 Effect = 0x16
	EffectNo Effect = 0x35

	// EffectDefault asks the driver to pick the console default for the input.
	EffectDefault Effect = 0xFF
)

func (e Effect) String() string {
	switch e {
	case Effect3D:
		return "3d"
	case Effect41:
		return "4.1"
	case Effect21:
		return "2.1"
	case EffectNo:
		return "none"
	case EffectDefault:
		return "default"
	default:
		return fmt.Sprintf("effect(%#02x)", byte(e))
	}
}

// ParseEffect accepts the names produced by Effect.String.
func ParseEffect(s string) (Effect, error) {
	for _, e := range []Effect{Effect3D, Effect41, Effect21, EffectNo, EffectDefault} {
		if e.String() == s {
			return e, nil
		}
	}
	return 0, fmt.Errorf("unknown effect %q", s)
}

// DefaultEffect is the effect the amplifier console applies when switching to in.
func DefaultEffect(in Input) Effect {
	if in == Input2 || in == InputAux {
		return Effect3D
	}
	return EffectNo
}

// Field addresses a byte of the status frame. Version and Power are derived
// values that do not map to a single offset.
type Field byte

const (
	MainLevel    Field = 0x03
	RearLevel    Field = 0x04
	CenterLevel  Field = 0x05
	SubLevel     Field = 0x06
	CurrentInput Field = 0x07

	FxInput4    Field = 0x09
	FxInput5    Field = 0x0A
	FxInput2    Field = 0x0B
	FxInputAux  Field = 0x0C
	FxInput1    Field = 0x0D
	FxInput3    Field = 0x0E
	SPDIFStatus Field = 0x0F
	Signal      Field = 0x10
	VersionA    Field = 0x11
	VersionB    Field = 0x12
	VersionC    Field = 0x13
	Standby     Field = 0x14
	AutoStandby Field = 0x15

	Version Field = 0xF0
	Power   Field = Field(GetStatus)
)

// IsLevel reports whether the field holds a channel volume.
func (f Field) IsLevel() bool {
	return f == MainLevel || f == RearLevel || f == CenterLevel || f == SubLevel
}

func (f Field) String() string {
	switch f {
	case MainLevel:
		return "main"
	case RearLevel:
		return "rear"
	case CenterLevel:
		return "center"
	case SubLevel:
		return "subwoofer"
	case CurrentInput:
		return "input"
	case Version:
		return "version"
	case Power:
		return "power"
	case Standby:
		return "standby"
	default:
		return fmt.Sprintf("field(%#02x)", byte(f))
	}
}

// ParseLevel maps a channel name to its level field.
func ParseLevel(name string) (Field, error) {
	for _, f := range []Field{MainLevel, RearLevel, CenterLevel, SubLevel} {
		if f.String() == name {
			return f, nil
		}
	}
	if name == "sub" {
		return SubLevel, nil
	}
	return 0, fmt.Errorf("unknown channel %q", name)
}
