package spec

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/logrex/logrex-go/internal/template"
)

// sanitizePathError removes the path from os.PathError to prevent
// information leakage. Error messages never expose file system paths.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

const (
	// MaxSpecFileSize is the maximum allowed size for a spec file (1MB).
	MaxSpecFileSize = 1 * 1024 * 1024

	// MaxFragmentLength is the maximum allowed length for a token
	// fragment (512 bytes). Keeps pathological patterns out of the
	// compiled regex.
	MaxFragmentLength = 512

	// MaxTokenCount is the maximum number of token entries in a file.
	MaxTokenCount = 1000

	// SupportedVersion is the currently supported spec file format version.
	SupportedVersion = 1
)

// File represents the structure of a YAML specialization file.
//
// Example:
//
//	version: 1
//	name: myapp
//	format: '%t %m'
//	capture: [ts, msg]
//	tokens:
//	  - token: '%t'
//	    pattern: '\[(?#=ts)\d+(?#!ts)\]'
//	  - token: '%m'
//	    pattern: '(?#=msg).*(?#!msg)'
//	aliases:
//	  - alias: ':default'
//	    format: '%t %m'
type File struct {
	// Version is the spec file format version. Currently only version 1.
	Version int `yaml:"version"`

	// Name identifies the specialization.
	Name string `yaml:"name"`

	// Format is the default raw template.
	Format string `yaml:"format"`

	// Capture is the default list of captured field names.
	Capture []string `yaml:"capture"`

	// Tokens is the token table.
	Tokens []TokenDef `yaml:"tokens"`

	// Aliases is the alias table (optional).
	Aliases []AliasDef `yaml:"aliases"`
}

// TokenDef is one token table entry.
type TokenDef struct {
	// Token is the placeholder as written in templates (e.g. "%h").
	Token string `yaml:"token"`

	// Pattern is the tagged fragment substituted for the token. Field
	// markers (?#=name)...(?#!name) delimit named regions and may nest.
	Pattern string `yaml:"pattern"`
}

// AliasDef is one alias table entry.
type AliasDef struct {
	// Alias is the reserved template name (e.g. ":common").
	Alias string `yaml:"alias"`

	// Format is the full raw template the alias stands for.
	Format string `yaml:"format"`
}

// Load reads and parses a spec file from the given path.
// Returns an error if the file cannot be read, is too large, or fails
// validation.
//
// The file is opened and its descriptor stat-ed (avoiding TOCTOU),
// non-regular files are rejected, and reads go through io.LimitReader
// so size limits hold even if the file grows.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec file: %w", sanitizePathError(err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat spec file: %w", sanitizePathError(err))
	}

	if !info.Mode().IsRegular() {
		return nil, errors.New("spec file must be a regular file (not FIFO, device, or special file)")
	}

	if info.Size() == 0 {
		return nil, errors.New("spec file is empty")
	}
	if info.Size() > MaxSpecFileSize {
		return nil, fmt.Errorf("spec file too large: %d bytes (max %d)", info.Size(), MaxSpecFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxSpecFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %w", sanitizePathError(err))
	}
	if len(data) > MaxSpecFileSize {
		return nil, fmt.Errorf("spec file too large: %d bytes (max %d)", len(data), MaxSpecFileSize)
	}

	return LoadBytes(data)
}

// LoadBytes parses a spec file from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("spec file is empty")
	}
	if len(data) > MaxSpecFileSize {
		return nil, fmt.Errorf("spec file too large: %d bytes (max %d)", len(data), MaxSpecFileSize)
	}

	var sf File
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := sf.Validate(); err != nil {
		return nil, err
	}

	return &sf, nil
}

// Validate performs schema-level validation on the spec file:
// supported version, at least one token, required fields, unique
// tokens and aliases, fragment length limits, and field marker
// balance. Marker validation here means a malformed table is rejected
// when the file is loaded, not at every compilation.
func (sf *File) Validate() error {
	if sf.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", sf.Version, SupportedVersion),
		}
	}

	if len(sf.Tokens) == 0 {
		return &ValidationError{
			Field:   "tokens",
			Message: "at least one token is required",
		}
	}
	if len(sf.Tokens) > MaxTokenCount {
		return &ValidationError{
			Field:   "tokens",
			Message: fmt.Sprintf("too many tokens (%d), maximum allowed is %d", len(sf.Tokens), MaxTokenCount),
		}
	}

	seenTokens := make(map[string]int, len(sf.Tokens))
	for i, td := range sf.Tokens {
		if td.Token == "" {
			return &TokenError{
				Index:   i,
				Field:   "token",
				Message: "token is required",
			}
		}
		if td.Pattern == "" {
			return &TokenError{
				Index:   i,
				Token:   td.Token,
				Field:   "pattern",
				Message: "pattern is required",
			}
		}
		if prev, exists := seenTokens[td.Token]; exists {
			return &TokenError{
				Index:   i,
				Token:   td.Token,
				Field:   "token",
				Message: fmt.Sprintf("duplicate token (previously defined at tokens[%d])", prev),
			}
		}
		seenTokens[td.Token] = i

		if len(td.Pattern) > MaxFragmentLength {
			return &TokenError{
				Index:   i,
				Token:   td.Token,
				Field:   "pattern",
				Message: fmt.Sprintf("pattern too long: %d bytes (max %d)", len(td.Pattern), MaxFragmentLength),
			}
		}
		if err := template.Validate(td.Pattern); err != nil {
			return &TokenError{
				Index:   i,
				Token:   td.Token,
				Field:   "pattern",
				Message: "malformed field markers",
				Cause:   err,
			}
		}
	}

	seenAliases := make(map[string]int, len(sf.Aliases))
	for i, ad := range sf.Aliases {
		if ad.Alias == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("aliases[%d].alias", i),
				Message: "alias is required",
			}
		}
		if ad.Format == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("aliases[%d].format", i),
				Message: "format is required",
			}
		}
		if prev, exists := seenAliases[ad.Alias]; exists {
			return &ValidationError{
				Field:   fmt.Sprintf("aliases[%d].alias", i),
				Message: fmt.Sprintf("duplicate alias (previously defined at aliases[%d])", prev),
			}
		}
		seenAliases[ad.Alias] = i
	}

	return nil
}

// Spec builds an immutable Spec from a validated file.
func (sf *File) Spec() (*Spec, error) {
	tokens := make(map[string]string, len(sf.Tokens))
	for _, td := range sf.Tokens {
		tokens[td.Token] = td.Pattern
	}
	aliases := make(map[string]string, len(sf.Aliases))
	for _, ad := range sf.Aliases {
		aliases[ad.Alias] = ad.Format
	}
	return New(Config{
		Name:    sf.Name,
		Format:  sf.Format,
		Capture: sf.Capture,
		Tokens:  tokens,
		Aliases: aliases,
	})
}

// NewFromFile is a convenience function that loads a spec file and
// builds the Spec in one step.
func NewFromFile(path string) (*Spec, error) {
	sf, err := Load(path)
	if err != nil {
		return nil, err
	}
	return sf.Spec()
}
