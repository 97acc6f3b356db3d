package main

import (
	"context"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
)

var inputCmd = cli.Command{
	Name:      "input",
	Usage:     "show or select the input (1-5, 6 for aux)",
	ArgsUsage: "[number]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "effect",
			Aliases: []string{"e"},
			Usage:   "effect to apply: 3d, 4.1, 2.1, none or default",
			Value:   amp.EffectDefault.String(),
		},
	},
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if c.Args().Len() == 0 {
			in, err := z.Request(ctx, amp.CurrentInput)
			if err != nil {
				return failed("input query", err)
			}
			console.PInfof(console.PictoPlug, "input %s", console.White(in))
			return nil
		}
		n, err := strconv.Atoi(c.Args().First())
		if err != nil {
			return console.Exit(2, "input must be a number, got %q", c.Args().First())
		}
		in, err := amp.InputByNumber(n)
		if err != nil {
			return console.Exit(2, "%s", err)
		}
		fx, err := amp.ParseEffect(c.String("effect"))
		if err != nil {
			return console.Exit(2, "%s", err)
		}
		if err := z.Input(ctx, in, fx); err != nil {
			return failed("input select", err)
		}
		if fx == amp.EffectDefault {
			fx = amp.DefaultEffect(in)
		}
		console.PInfof(console.PictoPlug, "%s with effect %s", console.White(in), console.White(fx))
		return nil
	}),
}
