package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
)

var rawCmd = cli.Command{
	Name:      "cmd",
	Usage:     "send a single raw command byte and print the reply",
	ArgsUsage: "<byte>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "do not ask for confirmation",
		},
	},
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if c.Args().Len() != 1 {
			return console.Exit(2, "expected one command byte, e.g. 0x38")
		}
		b, err := argByte(c, 0, "command")
		if err != nil {
			return err
		}
		if !c.Bool("yes") {
			answer, err := console.YesOrNo(fmt.Sprintf("send raw command %#02x?", b))
			if err != nil {
				return err
			}
			if answer != console.Yes {
				console.PInfof(console.PictoStop, "aborted")
				return nil
			}
		}
		reply, err := z.Cmd(ctx, amp.Command(b))
		if err != nil {
			return failed("command", err)
		}
		console.PInfof(console.PictoPin, "reply %s", console.White(amp.FormatFrame([]byte{reply})))
		return nil
	}),
}
