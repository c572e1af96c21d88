package main

import (
	"fmt"
	"os"

	"github.com/erszcz/RustyXML/xml"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [xml_file]",
	Short: "Check whether a file begins with a well-formed XML root element",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		if err := xml.ValidateReader(f); err != nil {
			fmt.Printf("not well-formed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("well-formed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
