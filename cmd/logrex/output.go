package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ValidOutputs lists all valid output formats.
var ValidOutputs = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// CompileResult is the printable outcome of compiling a template.
type CompileResult struct {
	Format    string   `json:"format"`
	Pattern   string   `json:"pattern"`
	Captures  []string `json:"captures"`
	Annotated string   `json:"annotated,omitempty"`
}

// OutputCompileResult writes a compile result in the given output
// format to the writer.
func OutputCompileResult(output string, res CompileResult, out io.Writer) error {
	switch output {
	case "jsonl":
		data, err := json.Marshal(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "pretty":
		if _, err := fmt.Fprintf(out, "format:    %s\n", res.Format); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "pattern:   %s\n", res.Pattern); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(out, "captures:  %s\n", strings.Join(res.Captures, ", ")); err != nil {
			return err
		}
		if res.Annotated != "" {
			if _, err := fmt.Fprintf(out, "annotated: %s\n", res.Annotated); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}

// OutputMatch writes one matched line's extracted fields. order gives
// the capture order for pretty output; jsonl output sorts keys via
// encoding/json.
func OutputMatch(output string, order []string, fields map[string]string, out io.Writer) error {
	switch output {
	case "jsonl":
		data, err := json.Marshal(fields)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "pretty":
		parts := make([]string, 0, len(order))
		for _, name := range order {
			if v, ok := fields[name]; ok {
				parts = append(parts, fmt.Sprintf("%s=%s", name, v))
			}
		}
		_, err := fmt.Fprintln(out, strings.Join(parts, " "))
		return err
	default:
		return fmt.Errorf("unknown output format: %s", output)
	}
}
