// Package main provides the arena CLI: single weapon and skill exchanges,
// round battles, deathmatches, and the leaderboard, run against the store
// selected by configuration.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
