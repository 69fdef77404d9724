package main

import (
	"fmt"
	"os"

	"fastodo/internal/cli"
	"fastodo/internal/config"
)

func main() {
	root := cli.NewRootCommand(config.NewLoader(), openMedium)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
