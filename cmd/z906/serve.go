package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/endpoint"
	"github.com/mklimuk/z906/httpapi"
)

var serveCmd = cli.Command{
	Name:  "serve",
	Usage: "expose the endpoints over HTTP",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "addr",
			Usage: "listen address; overrides http.addr from the config",
		},
	},
	Action: func(c *cli.Context) error {
		addr := c.String("addr")
		if addr == "" {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			addr = cfg.HTTP.Addr
		}
		if !c.Bool("verbose") {
			gin.SetMode(gin.ReleaseMode)
		}
		return withDriver(func(ctx context.Context, c *cli.Context, z *amp.Z906) error {
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := httpapi.New(addr, endpoint.NewRouter(z), httpapi.WithLogger(slog.Default()))
			errs := make(chan error, 1)
			go func() { errs <- srv.Start() }()

			select {
			case err := <-errs:
				return err
			case <-ctx.Done():
			}
			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})(c)
	},
}
