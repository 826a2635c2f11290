package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/forseti-sdk/forseti-sdk/internal/enginemanager"
)

func discoverCommand() *cli.Command {
	return &cli.Command{
		Name:  "discover",
		Usage: "List engine binaries found under the cache directory",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  cacheDirFlagName,
				Usage: "Directory to scan for engine binaries",
				Value: defaultCacheDir(),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			engines, err := enginemanager.DiscoverEngines(cmd.String(cacheDirFlagName))
			if err != nil {
				return cli.Exit(fmt.Sprintf("discover: %v", err), ExitConfigError)
			}

			if len(engines) == 0 {
				fmt.Println("no engines found")
				return nil
			}

			for _, e := range engines {
				fmt.Printf("%s\t%s\n", e.ID, e.BinaryPath)
			}
			return nil
		},
	}
}
