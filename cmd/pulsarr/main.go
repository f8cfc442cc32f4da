// Package main is the entry point for the pulsarr application.
package main

import (
	"os"

	"github.com/jamcalli/pulsarr/cmd/pulsarr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
