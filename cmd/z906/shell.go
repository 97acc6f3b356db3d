package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/cmd/z906/console"
	"github.com/mklimuk/z906/endpoint"
)

var shellCmd = cli.Command{
	Name:  "shell",
	Usage: "interactive endpoint console",
	Action: withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
		paths := make([]string, 0, len(endpoint.Table)+2)
		for _, e := range endpoint.Table {
			paths = append(paths, e.Path)
		}
		paths = append(paths, "help", "exit")

		history := ""
		if home, err := os.UserHomeDir(); err == nil {
			history = filepath.Join(home, ".z906_history")
		}
		rl, err := console.Shell(console.Cyan("z906> "), history, paths)
		if err != nil {
			return fmt.Errorf("could not start shell: %w", err)
		}
		defer func() { _ = rl.Close() }()

		router := endpoint.NewRouter(z)
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if quit := execLine(ctx, router, line, rl.Stdout()); quit {
				return nil
			}
		}
	}),
}

// execLine runs one shell line and reports whether the shell should exit.
func execLine(ctx context.Context, router *endpoint.Router, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch fields[0] {
	case "exit", "quit":
		return true
	case "help":
		for _, e := range endpoint.Table {
			_, _ = fmt.Fprintf(out, "%-24s %s\n", e.Path, e.Help)
		}
		return false
	}
	param := ""
	if len(fields) > 1 {
		param = fields[1]
	}
	v, err := router.Handle(ctx, fields[0], param)
	if err != nil {
		_, _ = fmt.Fprint(out, console.Format(err))
	}
	_, _ = fmt.Fprintln(out, v)
	return false
}
