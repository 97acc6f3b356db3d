package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/cmd/z906/console"
	"github.com/mklimuk/z906/serial"
)

var portsCmd = cli.Command{
	Name:  "ports",
	Usage: "list serial ports",
	Subcommands: cli.Commands{
		&portsLsCmd,
		&portsDetectCmd,
	},
}

var portsLsCmd = cli.Command{
	Name: "ls",
	Action: func(c *cli.Context) error {
		ports, err := serial.Ports()
		if err != nil {
			return console.Exit(1, "%s", err)
		}
		w := tabwriter.NewWriter(console.Output(), 16, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PORT\tVID\tPID\tSERIAL\tPRODUCT\tADAPTER\n")
		for _, p := range ports {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", p.Name, p.VID, p.PID, p.Serial, p.Product, p.Adapter)
		}
		return w.Flush()
	},
}

var portsDetectCmd = cli.Command{
	Name: "detect",
	Action: func(c *cli.Context) error {
		p, err := serial.Detect()
		if err != nil {
			return console.Exit(1, "%s %s", console.PictoGhost, err)
		}
		console.PInfof(console.PictoPlug, "%s (%s)", console.White(p.Name), p.Adapter)
		return nil
	},
}
