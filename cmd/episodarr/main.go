// Package main is the entry point for the episodarr binary.
package main

import (
	"os"

	"github.com/jmylchreest/episodarr/cmd/episodarr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
