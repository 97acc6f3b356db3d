package cmd

import (
	"fmt"

	"github.com/gophertribe/devtool/test"
	"github.com/spf13/cobra"
)

// quality wraps a devtool check as a cobra command.
func quality(use, short string, run func() error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(); err != nil {
				return fmt.Errorf("%s failed: %w", use, err)
			}
			return nil
		},
	}
}

func TestCmd() *cobra.Command {
	return quality("test", "Run unit tests", func() error { return test.Test() })
}

func LintCmd() *cobra.Command {
	return quality("lint", "Run linters", func() error { return test.Lint() })
}

// IntegrationTestCmd runs the tests tagged for a real amplifier on a serial port.
func IntegrationTestCmd() *cobra.Command {
	return quality("integration-test", "Run integration tests", func() error { return test.Integ() })
}
