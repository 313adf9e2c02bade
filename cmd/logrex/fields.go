package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// fields flags
	fieldsSpecFile string
	fieldsBuiltin  string
	fieldsOutput   string
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List every field a specialization can produce",
	Long: `List the universe of field names that a specialization's token
table can produce, one per line. These are the names accepted by the
--capture flag of the compile and match commands.

Examples:
  # Fields of the built-in Apache specialization
  logrex fields

  # Fields of a custom specialization
  logrex fields --spec myformat.yaml`,
	RunE: runFields,
}

func init() {
	fieldsCmd.Flags().StringVarP(&fieldsSpecFile, "spec", "s", "",
		"YAML specialization file (default: a built-in)")
	fieldsCmd.Flags().StringVar(&fieldsBuiltin, "builtin", "clf",
		"Built-in specialization to use when --spec is not given")
	fieldsCmd.Flags().StringVarP(&fieldsOutput, "output", "o", "pretty",
		"Output format: pretty, jsonl")

	rootCmd.AddCommand(fieldsCmd)
}

func runFields(cmd *cobra.Command, args []string) error {
	s, err := buildSpec(fieldsSpecFile, fieldsBuiltin)
	if err != nil {
		return err
	}

	names := s.FieldNames()
	out := cmd.OutOrStdout()

	switch fieldsOutput {
	case "jsonl":
		data, err := json.Marshal(names)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "pretty":
		for _, name := range names {
			if _, err := fmt.Fprintln(out, name); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", fieldsOutput)
	}
}
