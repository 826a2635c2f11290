// Package cmd implements forsetictl's command tree: a reference host-side
// driver exercising internal/enginemanager end-to-end (discover, start,
// analyze, shutdown), not a general-purpose linter front-end.
package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/forseti-sdk/forseti-sdk/internal/version"
)

// NewApp creates the forsetictl CLI application.
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "forsetictl",
		Usage:   "Reference driver for the Forseti-SDK host/engine protocol",
		Version: version.Version(),
		Description: `forsetictl drives engine processes over the Forseti-SDK NDJSON protocol.

It discovers engine binaries under a cache directory, starts one, sends it
files to analyze, and reports the diagnostics it returns.

Examples:
  forsetictl discover
  forsetictl analyze --engine basic Dockerfile`,
		Commands: []*cli.Command{
			discoverCommand(),
			analyzeCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application.
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
