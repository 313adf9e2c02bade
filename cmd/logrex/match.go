package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nxadm/tail"
	"github.com/spf13/cobra"

	"github.com/logrex/logrex-go/pkg/logrex"
)

var (
	// match flags
	matchSpecFile string
	matchBuiltin  string
	matchFormat   string
	matchCapture  []string
	matchOutput   string
	matchTrace    bool
	matchFollow   bool
)

var matchCmd = &cobra.Command{
	Use:   "match [file...]",
	Short: "Extract fields from log lines",
	Long: `Compile a template and run log lines through it, printing the
extracted fields for every matching line. Lines that do not match are
skipped (log them with --verbose).

Reads the named files, or stdin when no file is given.

Examples:
  # Extract host and status from an Apache access log
  logrex match --capture host,status access.log

  # Follow a growing log file
  logrex match --capture all --follow access.log

  # Trace which fields matched, for debugging a template
  logrex match --trace --format ':combined' access.log

  # Pipe to jq
  cat access.log | logrex match --capture all | jq .status`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchSpecFile, "spec", "s", "",
		"YAML specialization file (default: a built-in)")
	matchCmd.Flags().StringVar(&matchBuiltin, "builtin", "clf",
		"Built-in specialization to use when --spec is not given")
	matchCmd.Flags().StringVarP(&matchFormat, "format", "f", "",
		"Raw template (default: the specialization's default format)")
	matchCmd.Flags().StringSliceVarP(&matchCapture, "capture", "c", nil,
		"Fields to capture (comma-separated; 'none' and 'all' are directives; default all)")
	matchCmd.Flags().StringVarP(&matchOutput, "output", "o", "jsonl",
		"Output format: jsonl, pretty")
	matchCmd.Flags().BoolVar(&matchTrace, "trace", false,
		"Write match instrumentation to stderr")
	matchCmd.Flags().BoolVar(&matchFollow, "follow", false,
		"Keep the file open and process new lines as they are written")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	if !ValidOutputs[matchOutput] {
		return fmt.Errorf("unknown output format: %s", matchOutput)
	}

	capture := matchCapture
	if capture == nil {
		capture = []string{"all"}
	}
	c, err := buildCompiler(matchSpecFile, matchBuiltin, matchFormat, capture,
		logrex.Config{Trace: matchTrace, TraceWriter: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}

	p, err := c.Compile()
	if err != nil {
		return err
	}

	m := &matcher{
		pattern: p,
		order:   p.Fields(),
		output:  matchOutput,
		out:     cmd.OutOrStdout(),
		log:     newLogger(),
	}

	if matchFollow {
		if len(args) != 1 {
			return fmt.Errorf("--follow requires exactly one file argument")
		}
		return followFile(cmd.Context(), args[0], m)
	}

	if len(args) == 0 {
		return m.run(cmd.InOrStdin())
	}
	for _, path := range args {
		if err := matchFile(path, m); err != nil {
			return err
		}
	}
	return nil
}

// matcher applies a compiled pattern to lines and prints the results.
type matcher struct {
	pattern *logrex.Pattern
	order   []string
	output  string
	out     io.Writer
	log     *slog.Logger
}

func (m *matcher) line(line string) error {
	fields, ok := m.pattern.MatchString(line)
	if !ok {
		m.log.Debug("line did not match", "line", line)
		return nil
	}
	return OutputMatch(m.output, m.order, fields, m.out)
}

func (m *matcher) run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if err := m.line(scanner.Text()); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func matchFile(path string, m *matcher) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.run(f)
}

// followFile tails path and matches new lines until the context is
// cancelled or an interrupt arrives.
func followFile(ctx context.Context, path string, m *matcher) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	t, err := tail.TailFile(path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	go func() {
		<-ctx.Done()
		t.Stop()
	}()

	for line := range t.Lines {
		if line.Err != nil {
			return line.Err
		}
		if err := m.line(line.Text); err != nil {
			return err
		}
	}
	return nil
}
