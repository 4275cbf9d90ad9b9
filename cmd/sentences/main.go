// Package main is the entry point for the sentences CLI.
package main

import (
	"os"

	"github.com/f3rmion/sentences/cmd/sentences/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
