package main

import (
	"errors"
	"log/slog"
	"os"
	"time"

	chlog "github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/cmd/z906/console"
	"github.com/mklimuk/z906/config"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	app := cli.NewApp()
	app.Name = "z906"
	app.EnableBashCompletion = true
	app.Version = config.Version
	app.Usage = "control a Logitech Z906 amplifier over its console port"
	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "enable verbose logging including raw frames",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML config file",
			EnvVars: []string{"Z906_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "serial port of the amplifier; detected when empty",
			EnvVars: []string{"Z906_PORT"},
		},
		&cli.BoolFlag{
			Name:  "simulate",
			Usage: "talk to a simulated amplifier instead of a serial port",
		},
	}
	// run reports errors itself
	app.ExitErrHandler = func(*cli.Context, error) {}
	app.Before = func(c *cli.Context) error {
		charm := chlog.NewWithOptions(os.Stderr, chlog.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.DateTime,
			Prefix:          "z906",
		})
		charm.SetColorProfile(termenv.TrueColor)
		charm.SetLevel(chlog.InfoLevel)
		if c.Bool("verbose") {
			charm.SetLevel(chlog.DebugLevel)
		}
		slog.SetDefault(slog.New(charm))
		return nil
	}
	app.Commands = cli.Commands{
		&onCmd,
		&offCmd,
		&powerCmd,
		&inputCmd,
		&volumeCmd,
		&statusCmd,
		&temperatureCmd,
		&versionCmd,
		&rawCmd,
		&callCmd,
		&endpointsCmd,
		&shellCmd,
		&serveCmd,
		&portsCmd,
	}
	err := app.Run(args)
	if err != nil {
		console.Errorf("%s", err)
		var exerr cli.ExitCoder
		if errors.As(err, &exerr) {
			return exerr.ExitCode()
		}
		return 1
	}
	return 0
}
