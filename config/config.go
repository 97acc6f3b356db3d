// Package config holds the settings of the z906 tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/serial"
)

// Version is set at build time.
var Version = "dev"

type Serial struct {
	// Port is the device path; empty means detect a USB adapter.
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

type Timing struct {
	Timeout      Duration `yaml:"timeout"`
	Deadtime     Duration `yaml:"deadtime"`
	PollInterval Duration `yaml:"poll_interval"`
}

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Config struct {
	Serial Serial `yaml:"serial"`
	Timing Timing `yaml:"timing"`
	HTTP   HTTP   `yaml:"http"`
}

func Default() Config {
	return Config{
		Serial: Serial{BaudRate: serial.DefaultBaudRate},
		Timing: Timing{
			Timeout:      Duration(amp.DefaultTimeout),
			Deadtime:     Duration(amp.DefaultDeadtime),
			PollInterval: Duration(amp.DefaultPollInterval),
		},
		HTTP: HTTP{Addr: ":8906"},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("could not read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("could not parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []string
	if c.Serial.BaudRate <= 0 {
		errs = append(errs, "serial.baud_rate must be positive")
	}
	if c.Timing.Timeout <= 0 {
		errs = append(errs, "timing.timeout must be positive")
	}
	if c.Timing.Deadtime < 0 {
		errs = append(errs, "timing.deadtime must not be negative")
	}
	if c.Timing.PollInterval <= 0 {
		errs = append(errs, "timing.poll_interval must be positive")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// DriverOptions turns the timing section into driver options.
func (c Config) DriverOptions() []amp.Option {
	return []amp.Option{
		amp.WithTimeout(time.Duration(c.Timing.Timeout)),
		amp.WithDeadtime(time.Duration(c.Timing.Deadtime)),
		amp.WithPollInterval(time.Duration(c.Timing.PollInterval)),
	}
}

// Duration is a time.Duration written as "1s" or "50ms" in YAML.
type Duration time.Duration

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
