// Package main is the entry point for the billed CLI.
package main

import (
	"os"

	"github.com/billed-app/billed/cmd/billed/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
