// Package main provides the ratchet command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/ratchet/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
