package main

import (
	"os"

	"gitstack.dev/gitstack/internal/cli"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := cli.NewRootCmd(version)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
