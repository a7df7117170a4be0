package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	anchor "github.com/goliatone/go-anchor"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <json|->",
	Short: "Encode a JSON map into an anchor fragment",
	Long: `Encode a JSON object into a fragment (without the leading "#!").

Dependent maps go under "_key" siblings. Pass "-" to read the object
from stdin.`,
	Example: `  anchor encode '{"chat":"opened","_chat":{"person":"42"}}'`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readState(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}
		opts, err := codecOptions(newLogger())
		if err != nil {
			return err
		}
		fragment, err := anchor.EncodeMap(raw, opts...)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), fragment)
		return err
	},
}

// readState parses a JSON object from arg, or from stdin when arg is "-".
func readState(stdin io.Reader, arg string) (map[string]any, error) {
	var reader io.Reader = strings.NewReader(arg)
	if arg == "-" {
		reader = stdin
	}
	raw := map[string]any{}
	if err := json.NewDecoder(reader).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse state json: %w", err)
	}
	return raw, nil
}
