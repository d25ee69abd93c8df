package main

// Entry point: runs the cobra command tree and reports the error, if any.

import (
	"fmt"
	"os"

	"ohlc-logchart/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
