// Package main provides the entry point for the todo CLI.
package main

import (
	"os"

	"github.com/randalmurphal/todo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
