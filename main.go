// ABOUTME: Entry point for the mythic CLI
// ABOUTME: Terminal client for raising companions in the Mythic Companions sanctuary

package main

import (
	"fmt"
	"os"

	"github.com/paumaneja/mythic-companions-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
