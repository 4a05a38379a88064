package main

import (
	"os"

	"github.com/tkohno/guardian/cmd/guardian/commands"
)

// main is the entry point for the Guardian CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
