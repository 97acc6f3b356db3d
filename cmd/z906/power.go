package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
)

var onCmd = cli.Command{
	Name:  "on",
	Usage: "turn the amplifier on",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if err := z.On(ctx); err != nil {
			return failed("power on", err)
		}
		console.PInfof(console.PictoPower, "%s", console.Green("on"))
		return nil
	}),
}

var offCmd = cli.Command{
	Name:  "off",
	Usage: "put the amplifier in standby and save its settings",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if err := z.Off(ctx); err != nil {
			return failed("power off", err)
		}
		console.PInfof(console.PictoPower, "%s", console.Yellow("standby"))
		return nil
	}),
}

var powerCmd = cli.Command{
	Name:  "power",
	Usage: "show whether the amplifier is on",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		on, err := z.Request(ctx, amp.Power)
		if err != nil {
			return failed("power query", err)
		}
		state := console.Yellow("standby")
		if on == 1 {
			state = console.Green("on")
		}
		console.PInfof(console.PictoPower, "%s", state)
		return nil
	}),
}
