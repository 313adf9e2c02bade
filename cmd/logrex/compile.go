package main

import (
	"github.com/spf13/cobra"

	"github.com/logrex/logrex-go/pkg/logrex"
)

var (
	// compile flags
	compileSpecFile string
	compileBuiltin  string
	compileFormat   string
	compileCapture  []string
	compileComments bool
	compileOutput   string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a template and print the resulting pattern",
	Long: `Compile a log-format template and print the anchored regular
expression together with the ordered list of captured fields.

Examples:
  # Compile the built-in Apache common log format, capturing two fields
  logrex compile --capture host,status

  # Compile the combined format with every field captured
  logrex compile --format :combined --capture all

  # Use a custom specialization and show the marker-annotated pattern
  logrex compile --spec myformat.yaml --capture all --comments

  # Machine-readable output
  logrex compile --capture host --output jsonl | jq .pattern`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVarP(&compileSpecFile, "spec", "s", "",
		"YAML specialization file (default: a built-in)")
	compileCmd.Flags().StringVar(&compileBuiltin, "builtin", "clf",
		"Built-in specialization to use when --spec is not given")
	compileCmd.Flags().StringVarP(&compileFormat, "format", "f", "",
		"Raw template (default: the specialization's default format)")
	compileCmd.Flags().StringSliceVarP(&compileCapture, "capture", "c", nil,
		"Fields to capture (comma-separated; 'none' and 'all' are directives)")
	compileCmd.Flags().BoolVar(&compileComments, "comments", false,
		"Also print the pattern with field markers retained")
	compileCmd.Flags().StringVarP(&compileOutput, "output", "o", "pretty",
		"Output format: pretty, jsonl")

	rootCmd.AddCommand(compileCmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	c, err := buildCompiler(compileSpecFile, compileBuiltin, compileFormat,
		compileCapture, logrex.Config{Comments: compileComments})
	if err != nil {
		return err
	}

	p, err := c.Compile()
	if err != nil {
		return err
	}

	return OutputCompileResult(compileOutput, CompileResult{
		Format:    c.Format(),
		Pattern:   p.Source(),
		Captures:  p.Fields(),
		Annotated: p.Annotated(),
	}, cmd.OutOrStdout())
}
