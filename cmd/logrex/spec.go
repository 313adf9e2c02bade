package main

import (
	"fmt"

	"github.com/logrex/logrex-go/pkg/logrex"
	"github.com/logrex/logrex-go/pkg/logrex/clf"
	"github.com/logrex/logrex-go/pkg/logrex/spec"
)

// builtinSpecs maps --builtin names to shipped specializations.
var builtinSpecs = map[string]func() *spec.Spec{
	"clf": clf.New,
}

// buildSpec resolves the specialization for a command: a YAML spec
// file when specFile is non-empty, otherwise a built-in by name.
func buildSpec(specFile, builtin string) (*spec.Spec, error) {
	if specFile != "" {
		s, err := spec.NewFromFile(specFile)
		if err != nil {
			// Errors from the spec package are already sanitized (no path).
			return nil, fmt.Errorf("spec file: %w", err)
		}
		return s, nil
	}
	newSpec, ok := builtinSpecs[builtin]
	if !ok {
		return nil, fmt.Errorf("unknown built-in specialization %q (available: clf)", builtin)
	}
	return newSpec(), nil
}

// buildCompiler assembles a compiler from the shared command flags.
// A nil capture list keeps the specialization's default capture set.
func buildCompiler(specFile, builtin, format string, capture []string, cfg logrex.Config) (*logrex.Compiler, error) {
	s, err := buildSpec(specFile, builtin)
	if err != nil {
		return nil, err
	}
	cfg.Spec = s
	cfg.Format = format
	if capture != nil {
		cfg.Capture = logrex.ParseCapture(capture...)
	}
	return logrex.New(cfg)
}
