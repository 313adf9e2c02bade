package logrex

import (
	"errors"
	"io"
	"os"
	"regexp"

	"github.com/logrex/logrex-go/internal/template"
	"github.com/logrex/logrex-go/pkg/logrex/spec"
)

// Config configures a new Compiler.
type Config struct {
	// Spec is the specialization supplying the token table, alias
	// table and hooks. Required.
	Spec *spec.Spec

	// Format is the raw template. Empty means the spec's default.
	Format string

	// Capture is the initial list of capture instructions. A nil
	// slice means the spec's default capture fields; an empty non-nil
	// slice means capture nothing.
	Capture []CaptureInstruction

	// Comments retains field markers in the annotated form of the
	// compiled pattern for diagnostics. The executable pattern is
	// always marker-free. Default off.
	Comments bool

	// Trace enables match instrumentation: every field reached during
	// a match attempt reports its name to TraceWriter. Default off.
	Trace bool

	// TraceWriter receives trace output. Defaults to os.Stderr.
	TraceWriter io.Writer
}

// Compiler turns raw log-format templates into compiled patterns.
// It owns its template, capture set and derived state; the Spec it
// references is shared and read-only. A Compiler is plain mutable
// state and is not safe for concurrent mutation without external
// synchronization.
type Compiler struct {
	spec     *spec.Spec
	format   string
	capture  map[string]struct{}
	comments bool
	trace    bool
	traceW   io.Writer

	// tagged caches the expanded template; valid is cleared whenever
	// an input of the expansion changes so a stale pattern is never
	// served.
	tagged string
	valid  bool
}

// New creates a Compiler from cfg.
func New(cfg Config) (*Compiler, error) {
	if cfg.Spec == nil {
		return nil, errors.New("logrex: Config.Spec is required")
	}

	c := &Compiler{
		spec:     cfg.Spec,
		format:   cfg.Format,
		capture:  make(map[string]struct{}),
		comments: cfg.Comments,
		trace:    cfg.Trace,
		traceW:   cfg.TraceWriter,
	}
	if c.format == "" {
		c.format = cfg.Spec.DefaultFormat()
	}
	if c.traceW == nil {
		c.traceW = os.Stderr
	}

	if cfg.Capture == nil {
		for _, name := range cfg.Spec.DefaultCapture() {
			c.capture[name] = struct{}{}
		}
	} else {
		c.applyCapture(cfg.Capture)
	}

	return c, nil
}

// Format returns the raw template as last set. When the template is
// an alias name, Format keeps returning the alias name; the expansion
// is visible through Compile, not here.
func (c *Compiler) Format() string { return c.format }

// SetFormat replaces the raw template and invalidates the cached
// expansion.
func (c *Compiler) SetFormat(format string) {
	c.format = format
	c.valid = false
}

// Capture returns the field names that will be captured, in the order
// they appear left to right in the compiled pattern — not the order
// they were requested in.
func (c *Compiler) Capture() []string {
	_, order := template.Resolve(c.taggedTemplate(), c.inCaptureSet)
	return order
}

// SetCapture applies the given instructions left to right and returns
// the resulting capture order. Requesting a name the current template
// cannot produce is not an error; it simply does not appear in the
// result. Applying the same instructions twice is a no-op.
func (c *Compiler) SetCapture(items ...CaptureInstruction) []string {
	c.applyCapture(items)
	return c.Capture()
}

// Comments reports whether marker retention is enabled.
func (c *Compiler) Comments() bool { return c.comments }

// SetComments toggles marker retention in Pattern.Annotated.
func (c *Compiler) SetComments(on bool) { c.comments = on }

// Trace reports whether match instrumentation is enabled.
func (c *Compiler) Trace() bool { return c.trace }

// SetTrace toggles match instrumentation.
func (c *Compiler) SetTrace(on bool) { c.trace = on }

// AllFields returns the sorted universe of field names the spec's
// token table can produce. Advisory only: a spec with nontrivial
// hooks may produce fields this cannot see.
func (c *Compiler) AllFields() []string {
	return c.spec.FieldNames()
}

// Compile expands the current template, resolves field markers into
// capturing or non-capturing groups per the capture set, anchors the
// result and compiles it. The pattern and its capture order are
// recomputed from current configuration on every call, so a changed
// format, capture set or flag is always reflected.
func (c *Compiler) Compile() (*Pattern, error) {
	tagged := c.taggedTemplate()

	// In trace mode every field becomes a real group so its boundary
	// participation is observable; only fields in the capture set are
	// reported as captures.
	pred := c.inCaptureSet
	if c.trace {
		pred = func(string) bool { return true }
	}
	resolved, groupNames := template.Resolve(tagged, pred)

	source := "^" + template.Strip(resolved) + "$"
	rx, err := regexp.Compile(source)
	if err != nil {
		return nil, &CompileError{Source: source, Cause: err}
	}

	groups := make([]group, len(groupNames))
	var fields []string
	for i, name := range groupNames {
		reported := !c.trace || c.inCaptureSet(name)
		groups[i] = group{name: name, reported: reported}
		if reported {
			fields = append(fields, name)
		}
	}

	p := &Pattern{
		rx:     rx,
		source: source,
		fields: fields,
		groups: groups,
	}
	if c.comments {
		p.annotated = "^" + resolved + "$"
	}
	if c.trace {
		p.traceW = c.traceW
	}
	return p, nil
}

func (c *Compiler) inCaptureSet(name string) bool {
	_, ok := c.capture[name]
	return ok
}

func (c *Compiler) applyCapture(items []CaptureInstruction) {
	for _, it := range items {
		switch it.kind {
		case captureNone:
			c.capture = make(map[string]struct{})
		case captureAll:
			for _, name := range c.spec.FieldNames() {
				c.capture[name] = struct{}{}
			}
		default:
			c.capture[it.name] = struct{}{}
		}
	}
}

// taggedTemplate returns the expanded template, recomputing it if the
// raw template changed since the last expansion.
func (c *Compiler) taggedTemplate() string {
	if !c.valid {
		c.tagged = c.expand()
		c.valid = true
	}
	return c.tagged
}

// expand derives the tagged template from the raw one: escape literal
// text, run the pre-hook, resolve a template alias, substitute tokens,
// run the post-hook.
//
// Alias resolution deliberately rewrites the same working string that
// token substitution reads, so an alias always takes effect in the
// compiled pattern. The alias key is matched against the raw template
// exactly, before escaping; on a hit the working string becomes the
// escaped alias target, discarding any pre-hook edits to the alias
// name itself (the name is not pattern text).
func (c *Compiler) expand() string {
	work := template.Escape(c.format)
	work = c.spec.ApplyPreHook(work)
	if target, ok := c.spec.Alias(c.format); ok {
		work = template.Escape(target)
	}
	work = template.Substitute(work, c.spec.TokenMap())
	return c.spec.ApplyPostHook(work)
}
