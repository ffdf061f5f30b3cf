package main

import (
	"os"

	"github.com/minslab/revmomo/cmd/revmomo/commands"
)

// main is the entry point for the revmomo CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
