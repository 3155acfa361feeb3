// Package main implements taskhub, the command-line client for the TaskHub
// API. It offers an interactive terminal UI and one-shot commands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
