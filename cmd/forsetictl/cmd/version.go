package cmd

import (
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/forseti-sdk/forseti-sdk/internal/version"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output version information as JSON",
			},
		},
		Action: runVersion,
	}
}

func runVersion(_ context.Context, cmd *cli.Command) error {
	if !cmd.Bool("json") {
		_, err := fmt.Fprintf(os.Stdout, "forsetictl version %s\n", version.Version())
		return err
	}
	return writeVersionJSON(os.Stdout)
}

func writeVersionJSON(w io.Writer) error {
	return json.MarshalWrite(
		w,
		version.GetInfo(),
		jsontext.EscapeForHTML(true),
		jsontext.WithIndentPrefix(""),
		jsontext.WithIndent("  "),
	)
}
