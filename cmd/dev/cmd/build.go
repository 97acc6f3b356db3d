package cmd

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/gophertribe/devtool/build"
	"github.com/spf13/cobra"
)

const (
	binary        = "dist/z906"
	mainPackage   = "./cmd/z906"
	configPackage = "github.com/mklimuk/z906/config"
	builderImage  = "gophertribe/gobuild:1.25-bookworm"
)

func BuildCmd() *cobra.Command {
	var (
		version   string
		targetOS  string
		arch      string
		crossOS   string
		crossArch string
		noCache   bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the z906 binary",
		Long: `Build the z906 binary into dist/.

A build for the host platform runs go build directly. Any other --os/--arch
pair is built inside the builder image, which calls this command again with
--cross-os/--cross-arch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if targetOS != runtime.GOOS || arch != runtime.GOARCH {
				slog.Info("building in docker", "os", targetOS, "arch", arch, "image", builderImage)
				return build.Docker(cmd.Context(), fmt.Sprintf("./dev-%s-%s", targetOS, arch),
					[]string{"build", "--version", version, "--cross-os", crossOS, "--cross-arch", crossArch},
					build.DockerBuildOpts{NoCache: noCache, Image: builderImage})
			}
			if crossOS != "" && crossArch != "" {
				targetOS, arch = crossOS, crossArch
			}
			// port enumeration on darwin goes through IOKit
			cgo := targetOS == "darwin"
			slog.Info("building", "binary", binary, "version", version, "os", targetOS, "arch", arch, "cgo", cgo)
			return build.GoBuild(binary, mainPackage, build.GoBuildOpts{
				Version:       version,
				InjectVersion: true,
				ConfigPackage: configPackage,
				EnableCgo:     cgo,
				Arch:          arch,
				OS:            targetOS,
			})
		},
	}
	cmd.Flags().StringVar(&version, "version", "latest", "version injected into config.Version")
	cmd.Flags().StringVar(&targetOS, "os", runtime.GOOS, "os to build for")
	cmd.Flags().StringVar(&arch, "arch", runtime.GOARCH, "arch to build for")
	cmd.Flags().StringVar(&crossOS, "cross-os", "", "os to cross-compile for inside the builder")
	cmd.Flags().StringVar(&crossArch, "cross-arch", "", "arch to cross-compile for inside the builder")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not use the docker build cache")
	return cmd
}
