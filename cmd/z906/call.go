package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
	"github.com/mklimuk/z906/endpoint"
)

var callCmd = cli.Command{
	Name:      "call",
	Usage:     "run an endpoint such as volume/main/set",
	ArgsUsage: "<path> [value]",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		if c.Args().Len() == 0 {
			return console.Exit(2, "expected an endpoint path, see 'z906 endpoints'")
		}
		v, err := endpoint.NewRouter(z).Handle(ctx, c.Args().Get(0), c.Args().Get(1))
		if err != nil {
			return failed(c.Args().Get(0), err)
		}
		console.Print(fmt.Sprint(v))
		return nil
	}),
}

var endpointsCmd = cli.Command{
	Name:  "endpoints",
	Usage: "list the endpoints accepted by call, shell and serve",
	Action: func(c *cli.Context) error {
		w := tabwriter.NewWriter(console.Output(), 24, 0, 1, ' ', 0)
		_, _ = fmt.Fprintf(w, "PATH\tKIND\tDESCRIPTION\n")
		for _, e := range endpoint.Table {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Path, e.Kind, e.Help)
		}
		return w.Flush()
	},
}
