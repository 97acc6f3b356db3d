package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
	"github.com/mklimuk/z906/config"
	"github.com/mklimuk/z906/devctx"
	"github.com/mklimuk/z906/serial"
	"github.com/mklimuk/z906/sim"
)

// session is an opened amplifier and the release of its port.
type session struct {
	z     *amp.Z906
	close func() error
}

func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if p := c.String("port"); p != "" {
		cfg.Serial.Port = p
	}
	return cfg, nil
}

func open(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, console.Exit(2, "%s", err)
	}
	opts := append(cfg.DriverOptions(), amp.WithLogger(slog.Default()))
	if c.Bool("simulate") {
		slog.Debug("using simulated amplifier")
		return &session{z: amp.New(sim.NewDevice(), opts...), close: func() error { return nil }}, nil
	}
	name := cfg.Serial.Port
	if name == "" {
		found, err := serial.Detect()
		if err != nil {
			return nil, console.Exit(1, "no port given and none detected: %s", err)
		}
		slog.Info("detected serial adapter", "port", found.Name, "adapter", found.Adapter)
		name = found.Name
	}
	port, err := serial.Open(name, serial.WithBaudRate(cfg.Serial.BaudRate))
	if err != nil {
		return nil, console.Exit(1, "%s", err)
	}
	return &session{z: amp.New(port, opts...), close: port.Close}, nil
}

// withDriver opens the amplifier for the duration of fn.
func withDriver(fn func(ctx context.Context, c *cli.Context, z *amp.Z906) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := open(c)
		if err != nil {
			return err
		}
		defer func() {
			if err := s.close(); err != nil {
				slog.Warn("could not close port", "error", err)
			}
		}()
		ctx := devctx.SetVerbose(c.Context, c.Bool("verbose"))
		return fn(ctx, c, s.z)
	}
}

func failed(what string, err error) cli.ExitCoder {
	return console.Exit(1, "%s failed: %s", what, console.Red(err))
}

func argByte(c *cli.Context, i int, what string) (byte, error) {
	var v uint
	if _, err := fmt.Sscan(c.Args().Get(i), &v); err != nil || v > 0xFF {
		return 0, console.Exit(2, "%s must be a number in 0..255, got %q", what, c.Args().Get(i))
	}
	return byte(v), nil
}
