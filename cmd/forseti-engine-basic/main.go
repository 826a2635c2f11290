// Command forseti_engine_basic is the reference engine binary: it runs the
// "basic" ruleset (internal/basicruleset) over the NDJSON protocol on stdio.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/forseti-sdk/forseti-sdk/internal/basicruleset"
	"github.com/forseti-sdk/forseti-sdk/internal/engineserver"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	srv := engineserver.New(basicruleset.NewOptions(), os.Stdout, logger)
	if err := srv.RunStdio(os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, "forseti_engine_basic:", err)
		os.Exit(1)
	}
}
