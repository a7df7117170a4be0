package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	anchor "github.com/goliatone/go-anchor"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <uri|fragment>",
	Short: "Decode an anchor into its JSON map form",
	Long: `Decode a full URI or a bare fragment and print the state as JSON.

Dependent maps are printed under "_key" and the decoded full value of
string keys under "_s_key".`,
	Example: `  anchor decode 'http://example.com/#!chat=opened:person,42|typing'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := codecOptions(newLogger())
		if err != nil {
			return err
		}
		codec := anchor.New(opts...)

		input := args[0]
		var state anchor.State
		if strings.Contains(input, "#") && !strings.HasPrefix(input, "#") {
			state = codec.DecodeURI(input)
		} else {
			state = codec.Decode(input)
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(state.Map())
	},
}
