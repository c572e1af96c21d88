package main

import (
	"fmt"
	"os"

	"github.com/erszcz/RustyXML/xml"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [xml_file]",
	Short: "Print the raw event stream produced by tokenizing a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening file: %w", err)
		}
		defer f.Close()

		p := xml.NewParser()
		return p.FeedReader(f, func(r xml.Result) {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%v\n", r.Err)
				return
			}
			printEvent(r.Event)
		})
	},
}

func printEvent(ev xml.Event) {
	switch e := ev.(type) {
	case xml.StartTag:
		fmt.Printf("StartTag %s (ns=%q prefix=%q) attrs=%d\n", e.Local, e.NS, e.Prefix, len(e.Attributes))
	case xml.EndTag:
		fmt.Printf("EndTag %s (ns=%q prefix=%q)\n", e.Local, e.NS, e.Prefix)
	case xml.Characters:
		fmt.Printf("Characters %q\n", e.Text)
	case xml.CDATA:
		fmt.Printf("CDATA %q\n", e.Text)
	case xml.Comment:
		fmt.Printf("Comment %q\n", e.Text)
	case xml.PI:
		fmt.Printf("PI %q\n", e.Text)
	}
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
