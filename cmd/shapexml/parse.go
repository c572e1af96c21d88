package main

import (
	"fmt"
	"os"

	"github.com/erszcz/RustyXML/xml"
	"github.com/spf13/cobra"
)

var parseIndent string

var parseCmd = &cobra.Command{
	Use:   "parse [xml_file]",
	Short: "Parse a file into a tree and re-render it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		root, err := xml.ParseReader(f)
		if err != nil {
			return err
		}
		fmt.Println(xml.RenderIndent(root, parseIndent))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&parseIndent, "indent", "i", "  ", "Indent string used for re-rendering")
}
