// Command forsetictl is the reference host-side driver for the Forseti-SDK
// protocol: it discovers, starts, drives, and shuts down engine processes.
package main

import (
	"fmt"
	"os"

	"github.com/forseti-sdk/forseti-sdk/cmd/forsetictl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
