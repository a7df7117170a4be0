package main

import (
	"fmt"

	"github.com/spf13/cobra"

	anchor "github.com/goliatone/go-anchor"
)

var hrefReplace bool

var hrefCmd = &cobra.Command{
	Use:   "href <uri> <json|->",
	Short: "Print the URI an anchor write would navigate to",
	Long: `Encode the JSON state and print the target URI: the part of <uri>
before '#' followed by "#!" and the fragment, or no fragment at all when
the state encodes to nothing.`,
	Example: `  anchor href 'http://example.com/page#!old=1' '{"chat":"closed"}'`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readState(cmd.InOrStdin(), args[1])
		if err != nil {
			return err
		}
		state, err := anchor.FromMap(raw)
		if err != nil {
			return err
		}
		opts, err := codecOptions(newLogger())
		if err != nil {
			return err
		}

		location := anchor.NewMemoryLocation(args[0])
		replaced, err := anchor.SetAnchor(location, state, hrefReplace, opts...)
		if err != nil {
			return err
		}
		mode := "push"
		if replaced {
			mode = "replace"
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", mode, location.Href())
		return err
	},
}

func init() {
	hrefCmd.Flags().BoolVar(&hrefReplace, "replace", false, "Replace the current history entry instead of pushing")
}
