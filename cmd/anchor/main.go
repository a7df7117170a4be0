// Command anchor decodes, encodes and targets URI anchor fragments from the
// command line.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	anchor "github.com/goliatone/go-anchor"
	"github.com/goliatone/go-anchor/internal/schemafile"
)

var (
	verbose    bool
	schemaPath string
	delims     anchor.Delimiters
)

var rootCmd = &cobra.Command{
	Use:   "anchor",
	Short: "Work with key=value URI anchor fragments",
	Long: `Decode, encode and build URI anchors of the form

  #!key=value:dep,value|flag&other=1

Encoding validates keys and values against an optional schema file
(JSON, YAML or TOML in the SchemaMap shape).`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log codec operations to stderr")
	flags.StringVar(&schemaPath, "schema", "", "Schema file used to authorize encoded keys")
	flags.StringVar(&delims.Pair, "pair-delim", "", "Delimiter between independent pairs (default &)")
	flags.StringVar(&delims.KeyValue, "kv-delim", "", "Delimiter between key and value (default =)")
	flags.StringVar(&delims.Sub, "sub-delim", "", "Delimiter before the dependent map (default :)")
	flags.StringVar(&delims.DepPair, "dep-pair-delim", "", "Delimiter between dependent pairs (default |)")
	flags.StringVar(&delims.DepKeyValue, "dep-kv-delim", "", "Delimiter between dependent key and value (default ,)")

	rootCmd.AddCommand(decodeCmd, encodeCmd, hrefCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// codecOptions turns the persistent flags into codec options. Without
// --schema no validation runs.
func codecOptions(logger *slog.Logger) ([]anchor.Option, error) {
	opts := []anchor.Option{
		anchor.WithDelimiters(delims),
		anchor.WithLogger(anchor.SlogLogger(logger)),
	}
	if schemaPath == "" {
		return append(opts, anchor.WithSchema(nil)), nil
	}
	schema, err := schemafile.Load(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	logger.Debug("schema loaded", "path", schemaPath, "keys", len(schema.Keys()))
	return append(opts, anchor.WithSchema(schema)), nil
}
