// Package cmd implements the ozwald CLI: the serve entrypoint and a set of
// thin HTTP-client subcommands that talk to a running daemon's control
// plane (§6.3, §6.5).
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FredworkLemmas/ozwald-sub000/internal/catalog"
)

// Exit codes per §6.3: 0 success, 1 configuration/auth error, 2 runtime error.
const (
	ExitSuccess           = 0
	ExitConfigOrAuthError = 1
	ExitRuntimeError      = 2
)

var rootCmd = &cobra.Command{
	Use:          "ozwald",
	Short:        "ozwald provisions and reconciles per-host containerized services",
	SilenceUsage: true,
}

// SetVersion injects the build-time version into the root command.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the CLI and exits the process with the exit code matching
// the error taxonomy in §7.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	var cfgErr *catalog.ConfigError
	if errors.As(err, &cfgErr) {
		return ExitConfigOrAuthError
	}

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 400, 401, 403, 409:
			return ExitConfigOrAuthError
		default:
			return ExitRuntimeError
		}
	}

	return ExitRuntimeError
}
