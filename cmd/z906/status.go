package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
)

var statusCmd = cli.Command{
	Name:  "status",
	Usage: "dump the status frame",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "yaml",
			Usage: "print the decoded status as YAML",
		},
	},
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if !c.Bool("yaml") {
			if err := z.PrintStatus(ctx, console.Output()); err != nil {
				return failed("status", err)
			}
			return nil
		}
		if err := z.Refresh(ctx); err != nil {
			return failed("status", err)
		}
		report, err := z.Status().Report()
		if err != nil {
			return failed("status decode", err)
		}
		enc := yaml.NewEncoder(console.Output())
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("could not encode status: %w", err)
		}
		return enc.Close()
	}),
}

var temperatureCmd = cli.Command{
	Name:    "temperature",
	Aliases: []string{"temp"},
	Usage:   "read the main temperature sensor",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		t, err := z.MainSensor(ctx)
		if err != nil {
			return failed("temperature read", err)
		}
		console.PInfof(console.PictoThermometer, "%s", console.White(t))
		return nil
	}),
}

var versionCmd = cli.Command{
	Name:  "firmware",
	Usage: "show the amplifier firmware version",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		v, err := z.Request(ctx, amp.Version)
		if err != nil {
			return failed("version query", err)
		}
		console.PInfof(console.PictoNotebook, "firmware %s", console.White(v))
		return nil
	}),
}
