package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
)

var channels = []amp.Field{amp.MainLevel, amp.RearLevel, amp.CenterLevel, amp.SubLevel}

// steps maps each channel to its up and down command.
var steps = map[amp.Field][2]amp.Command{
	amp.MainLevel:   {amp.LevelMainUp, amp.LevelMainDown},
	amp.RearLevel:   {amp.LevelRearUp, amp.LevelRearDown},
	amp.CenterLevel: {amp.LevelCenterUp, amp.LevelCenterDown},
	amp.SubLevel:    {amp.LevelSubUp, amp.LevelSubDown},
}

func channelArg(c *cli.Context) (amp.Field, error) {
	name := c.Args().First()
	if name == "" {
		return amp.MainLevel, nil
	}
	f, err := amp.ParseLevel(name)
	if err != nil {
		return 0, console.Exit(2, "%s (main, rear, center or sub)", err)
	}
	return f, nil
}

var volumeCmd = cli.Command{
	Name:    "volume",
	Aliases: []string{"vol"},
	Usage:   "read and change channel levels on a 0-255 scale",
	Subcommands: cli.Commands{
		&volumeGetCmd,
		&volumeSetCmd,
		volumeStepCmd("up", 0),
		volumeStepCmd("down", 1),
	},
}

var volumeGetCmd = cli.Command{
	Name:      "get",
	Usage:     "show one channel level or all of them",
	ArgsUsage: "[channel]",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		list := channels
		if c.Args().Len() > 0 {
			f, err := channelArg(c)
			if err != nil {
				return err
			}
			list = []amp.Field{f}
		}
		for _, f := range list {
			v, err := z.Request(ctx, f)
			if err != nil {
				return failed("level query", err)
			}
			console.PInfof(console.PictoSpeaker, "%-9s %s", f, console.White(v))
		}
		return nil
	}),
}

var volumeSetCmd = cli.Command{
	Name:      "set",
	Usage:     "set a channel level",
	ArgsUsage: "<channel> <0-255>",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if c.Args().Len() != 2 {
			return console.Exit(2, "expected a channel and a level")
		}
		f, err := channelArg(c)
		if err != nil {
			return err
		}
		v, err := argByte(c, 1, "level")
		if err != nil {
			return err
		}
		if err := z.Set(ctx, f, v); err != nil {
			return failed("level change", err)
		}
		console.PInfof(console.PictoSpeaker, "%s set to %s", f, console.White(v))
		return nil
	}),
}

func volumeStepCmd(name string, dir int) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     "move a channel level " + name + " by one device step",
		ArgsUsage: "[channel]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "steps",
				Aliases: []string{"n"},
				Value:   1,
			},
		},
		Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
			f, err := channelArg(c)
			if err != nil {
				return err
			}
			for range max(c.Int("steps"), 1) {
				if err := z.Exec(ctx, steps[f][dir]); err != nil {
					return failed("level step", err)
				}
			}
			v, err := z.Request(ctx, f)
			if err != nil {
				return failed("level query", err)
			}
			console.PInfof(console.PictoSpeaker, "%-9s %s", f, console.White(v))
			return nil
		}),
	}
}
