// Package main implements the planner API server: a task planning backend
// that stores per-owner tasks and pushes changes to connected clients.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
