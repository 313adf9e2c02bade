// Command logrex compiles symbolic log-format templates into regular
// expressions and applies them to log lines.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "logrex",
	Short: "Compile log-format templates into field-extracting patterns",
	Long: `logrex turns a symbolic log-format template (e.g. "%h %t %r %s")
into a regular expression that extracts a chosen subset of named,
possibly nested fields from log lines.

Templates are interpreted against a specialization: a token table
mapping placeholders to pattern fragments, plus optional template
aliases. Use the built-in Apache access log specialization (--builtin
clf) or supply your own as a YAML file (--spec).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging to stderr")
}

// newLogger returns the command logger: debug to stderr with
// --verbose, discarded otherwise.
func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
