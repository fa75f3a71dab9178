package main

import (
	"os"

	"github.com/tranvu/roitrack/cmd/roitrack/commands"
)

// main is the entry point for the roitrack CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
