// Package spec defines log-format specializations for the logrex
// compiler: the token table mapping placeholders to tagged pattern
// fragments, the alias table naming whole templates, default format
// and capture settings, and optional rewrite hooks.
//
// A Spec is immutable after construction and may be shared freely
// across compiler instances and goroutines. Specs can be built in
// code with New, or loaded from YAML files with Load and friends.
package spec

import (
	"fmt"
	"sort"

	"github.com/logrex/logrex-go/internal/template"
)

// Hook rewrites the intermediate template string at one of the two
// fixed points of expansion (before alias resolution, or after token
// substitution). A hook's only permitted effect is returning the
// edited string; it must not have side effects visible to the
// compiler. A nil hook is the identity.
type Hook func(intermediate string) string

// Config describes a specialization to be built with New.
type Config struct {
	// Name identifies the specialization (e.g. "clf").
	Name string

	// Format is the default raw template for compilers using this
	// spec that do not set their own.
	Format string

	// Capture is the default list of captured field names.
	Capture []string

	// Tokens maps placeholder tokens (e.g. "%h") to tagged pattern
	// fragments. Every field marker opened in a fragment must be
	// closed in the same fragment.
	Tokens map[string]string

	// Aliases maps reserved template names (e.g. ":common") to full
	// raw templates. An alias applies only when a compiler's raw
	// template exactly equals the alias key.
	Aliases map[string]string

	// PreHook runs on the escaped template before alias resolution.
	// PostHook runs on the fully substituted tagged template.
	PreHook  Hook
	PostHook Hook
}

// Spec is an immutable specialization. All accessors are safe for
// concurrent use.
type Spec struct {
	name     string
	format   string
	capture  []string
	tokens   map[string]string
	aliases  map[string]string
	preHook  Hook
	postHook Hook
}

// New builds a Spec from cfg, copying the tables so later mutation of
// cfg cannot affect the Spec. Every token fragment's field markers are
// validated here, at registration, so a malformed table fails fast
// instead of producing a silently wrong pattern at compile time.
func New(cfg Config) (*Spec, error) {
	tokens := make(map[string]string, len(cfg.Tokens))
	for tok, frag := range cfg.Tokens {
		if tok == "" {
			return nil, &ValidationError{Field: "tokens", Message: "empty token"}
		}
		if err := template.Validate(frag); err != nil {
			return nil, &TokenError{
				Index:   -1,
				Token:   tok,
				Field:   "pattern",
				Message: "malformed field markers",
				Cause:   err,
			}
		}
		tokens[tok] = frag
	}

	aliases := make(map[string]string, len(cfg.Aliases))
	for name, format := range cfg.Aliases {
		if name == "" {
			return nil, &ValidationError{Field: "aliases", Message: "empty alias name"}
		}
		aliases[name] = format
	}

	return &Spec{
		name:     cfg.Name,
		format:   cfg.Format,
		capture:  append([]string(nil), cfg.Capture...),
		tokens:   tokens,
		aliases:  aliases,
		preHook:  cfg.PreHook,
		postHook: cfg.PostHook,
	}, nil
}

// MustNew is like New but panics on error. Intended for built-in
// specializations initialized at package load.
func MustNew(cfg Config) *Spec {
	s, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("spec: invalid specialization %q: %v", cfg.Name, err))
	}
	return s
}

// Name returns the specialization's name.
func (s *Spec) Name() string { return s.name }

// DefaultFormat returns the default raw template.
func (s *Spec) DefaultFormat() string { return s.format }

// DefaultCapture returns a copy of the default captured field names.
func (s *Spec) DefaultCapture() []string {
	return append([]string(nil), s.capture...)
}

// Token returns the fragment for tok and whether tok is in the table.
func (s *Spec) Token(tok string) (string, bool) {
	frag, ok := s.tokens[tok]
	return frag, ok
}

// TokenMap returns a copy of the token table.
func (s *Spec) TokenMap() map[string]string {
	m := make(map[string]string, len(s.tokens))
	for k, v := range s.tokens {
		m[k] = v
	}
	return m
}

// Alias returns the template for name and whether name is an alias.
func (s *Spec) Alias(name string) (string, bool) {
	format, ok := s.aliases[name]
	return format, ok
}

// FieldNames returns the sorted union of every field name that any
// fragment in the token table can produce. This enumerates the whole
// table, not any particular template, so it backs "select all" without
// needing an expanded template first.
func (s *Spec) FieldNames() []string {
	seen := make(map[string]struct{})
	for _, frag := range s.tokens {
		for _, name := range template.FieldNames(frag) {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreHook runs the pre-expansion hook, or returns the string
// unchanged when no hook is configured.
func (s *Spec) ApplyPreHook(intermediate string) string {
	if s.preHook == nil {
		return intermediate
	}
	return s.preHook(intermediate)
}

// ApplyPostHook runs the post-expansion hook, or returns the string
// unchanged when no hook is configured.
func (s *Spec) ApplyPostHook(intermediate string) string {
	if s.postHook == nil {
		return intermediate
	}
	return s.postHook(intermediate)
}
