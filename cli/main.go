package main

import (
	"fmt"
	"os"

	"github.com/trebuchet-org/deploytx/internal/cli"
	"github.com/trebuchet-org/deploytx/internal/cli/render"
)

func main() {
	rootCmd := cli.NewRootCmd()
	rootCmd.SilenceErrors = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
