package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/forseti-sdk/forseti-sdk/internal/enginemanager"
	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
	"github.com/forseti-sdk/forseti-sdk/internal/reporter"
)

// Exit codes.
const (
	ExitSuccess     = 0
	ExitConfigError = 2
	ExitNoFiles     = 3
	ExitEngineError = 4
)

func analyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Start an engine, analyze files with it, then shut it down",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  cacheDirFlagName,
				Usage: "Directory to scan for engine binaries",
				Value: defaultCacheDir(),
			},
			&cli.StringFlag{
				Name:     "engine",
				Aliases:  []string{"e"},
				Usage:    "Engine id to start (as derived from its binary name)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "format",
				Usage: "Output format: text, json, ndjson, sarif",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "output",
				Usage: "Output destination: stdout, stderr, or a file path",
				Value: "stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			files := cmd.Args().Slice()
			if len(files) == 0 {
				return cli.Exit("analyze: no files given", ExitNoFiles)
			}

			format, err := reporter.ParseFormat(cmd.String("format"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("analyze: %v", err), ExitConfigError)
			}
			writer, closeWriter, err := reporter.GetWriter(cmd.String("output"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("analyze: %v", err), ExitConfigError)
			}
			defer closeWriter()

			rep, err := reporter.New(reporter.Options{
				Format:      format,
				Writer:      writer,
				ShowSource:  true,
				ToolName:    "forsetictl",
				ToolURI:     "https://github.com/forseti-sdk/forseti-sdk",
				ToolVersion: "dev",
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("analyze: %v", err), ExitConfigError)
			}

			manager := enginemanager.NewManager(cmd.String(cacheDirFlagName), enginemanager.DefaultIdleTimeout)
			engines, err := manager.Discover()
			if err != nil {
				return cli.Exit(fmt.Sprintf("analyze: discover: %v", err), ExitConfigError)
			}

			info, ok := findEngine(engines, cmd.String("engine"))
			if !ok {
				return cli.Exit(fmt.Sprintf("analyze: engine %q not found under %s", cmd.String("engine"), cmd.String(cacheDirFlagName)), ExitConfigError)
			}

			if _, err := manager.StartEngine(ctx, info, protocol.EngineConfig{}); err != nil {
				return cli.Exit(fmt.Sprintf("analyze: start engine: %v", err), ExitEngineError)
			}
			defer func() { _ = manager.ShutdownEngine(info.ID) }()

			results := make([]reporter.FileDiagnostics, 0, len(files))
			sources := make(map[string][]byte, len(files))
			for _, path := range files {
				content, err := os.ReadFile(path)
				if err != nil {
					return cli.Exit(fmt.Sprintf("analyze: read %s: %v", path, err), ExitConfigError)
				}

				uri := "file://" + path
				diagnostics, err := manager.AnalyzeFile(info.ID, uri, string(content))
				if err != nil {
					return cli.Exit(fmt.Sprintf("analyze: %s: %v", path, err), ExitEngineError)
				}

				results = append(results, reporter.FileDiagnostics{URI: uri, Diagnostics: diagnostics})
				sources[uri] = content
			}

			metadata := reporter.ReportMetadata{FilesScanned: len(files)}
			if err := rep.Report(results, sources, metadata); err != nil {
				return cli.Exit(fmt.Sprintf("analyze: report: %v", err), ExitConfigError)
			}
			return nil
		},
	}
}

func findEngine(engines []enginemanager.EngineInfo, id string) (enginemanager.EngineInfo, bool) {
	for _, e := range engines {
		if e.ID == id {
			return e, true
		}
	}
	return enginemanager.EngineInfo{}, false
}
