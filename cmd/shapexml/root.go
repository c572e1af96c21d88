package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "shapexml",
	Short: "A streaming XML 1.0 tokenizer and tree builder",
	Long: `shapexml reads XML documents incrementally and can print their raw
token stream, validate well-formedness, or parse and re-render a single
document tree.`,
}

// Execute runs the root command, exiting the process with status 1 on
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
