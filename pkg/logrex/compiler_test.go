package logrex_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logrex/logrex-go/pkg/logrex"
	"github.com/logrex/logrex-go/pkg/logrex/spec"
)

// testSpec builds the specialization used across compiler tests:
// two flat fields (a, b), one nested parent (c with children cs, cn),
// one field-less token (d), and a template alias.
func testSpec(t *testing.T) *spec.Spec {
	t.Helper()
	s, err := spec.New(spec.Config{
		Name:   "test",
		Format: "%a %b",
		Tokens: map[string]string{
			"%a": `(?#=a)\d+(?#!a)`,
			"%b": `(?#=b)th(?:is|at)(?#!b)`,
			"%c": `(?#=c)(?#=cs)\w+(?#!cs)/(?#=cn)\d+(?#!cn)(?#!c)`,
			"%d": `(?:foo|bar|baz)`,
		},
		Aliases: map[string]string{
			":dcb": "%d %c %b",
		},
	})
	require.NoError(t, err)
	return s
}

func TestNew_RequiresSpec(t *testing.T) {
	_, err := logrex.New(logrex.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Spec is required")
}

func TestNew_DefaultsFromSpec(t *testing.T) {
	s, err := spec.New(spec.Config{
		Format:  "%a",
		Capture: []string{"a"},
		Tokens:  map[string]string{"%a": `(?#=a)\d+(?#!a)`},
	})
	require.NoError(t, err)

	c, err := logrex.New(logrex.Config{Spec: s})
	require.NoError(t, err)
	assert.Equal(t, "%a", c.Format())
	assert.Equal(t, []string{"a"}, c.Capture())
}

func TestCapture_OrderFollowsTemplate(t *testing.T) {
	c, err := logrex.New(logrex.Config{Spec: testSpec(t)})
	require.NoError(t, err)

	// Requested b then a; template order is a then b.
	got := c.SetCapture(logrex.Field("b"), logrex.Field("a"))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestCapture_SubsetOfAllFields(t *testing.T) {
	c, err := logrex.New(logrex.Config{Spec: testSpec(t)})
	require.NoError(t, err)
	c.SetFormat("%a %c")

	all := c.AllFields()
	for _, name := range c.SetCapture(logrex.SelectAll) {
		assert.Contains(t, all, name)
	}
}

func TestCapture_Directives(t *testing.T) {
	s := testSpec(t)

	fresh, err := logrex.New(logrex.Config{Spec: s})
	require.NoError(t, err)
	wantAll := fresh.SetCapture(logrex.SelectAll)

	// none then all equals all on a fresh set.
	c, err := logrex.New(logrex.Config{Spec: s})
	require.NoError(t, err)
	c.SetCapture(logrex.Field("a"))
	got := c.SetCapture(logrex.SelectNone, logrex.SelectAll)
	assert.Equal(t, wantAll, got)

	// none empties regardless of prior state.
	assert.Empty(t, c.SetCapture(logrex.SelectNone))

	// Directives and names mix, applied left to right.
	got = c.SetCapture(logrex.SelectAll, logrex.SelectNone, logrex.Field("b"))
	assert.Equal(t, []string{"b"}, got)
}

func TestCapture_Idempotent(t *testing.T) {
	c, err := logrex.New(logrex.Config{Spec: testSpec(t)})
	require.NoError(t, err)

	first := c.SetCapture(logrex.Field("a"), logrex.Field("b"))
	second := c.SetCapture(logrex.Field("a"), logrex.Field("b"))
	assert.Equal(t, first, second)
}

func TestCapture_UnknownFieldAbsent(t *testing.T) {
	c, err := logrex.New(logrex.Config{Spec: testSpec(t)})
	require.NoError(t, err)

	// You can ask for anything; you get what exists.
	got := c.SetCapture(logrex.Field("a"), logrex.Field("nope"))
	assert.Equal(t, []string{"a"}, got)
}

func TestCompile_Idempotent(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:    testSpec(t),
		Capture: logrex.ParseCapture("a", "b"),
	})
	require.NoError(t, err)

	p1, err := c.Compile()
	require.NoError(t, err)
	p2, err := c.Compile()
	require.NoError(t, err)

	assert.Equal(t, p1.Source(), p2.Source())
	assert.Equal(t, p1.Fields(), p2.Fields())
}

func TestCompile_Nesting(t *testing.T) {
	s := testSpec(t)

	// Only the inner child captured: parent and sibling collapse to
	// non-capturing groups.
	c, err := logrex.New(logrex.Config{
		Spec:    s,
		Format:  "%c",
		Capture: []logrex.CaptureInstruction{logrex.Field("cn")},
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"cn"}, p.Fields())
	assert.Equal(t, `^(?:(?:\w+)/(\d+))$`, p.Source())

	fields, ok := p.MatchString("that/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"cn": "42"}, fields)

	// Parent and child together: parent's group opens first.
	got := c.SetCapture(logrex.Field("c"))
	assert.Equal(t, []string{"c", "cn"}, got)

	p, err = c.Compile()
	require.NoError(t, err)
	assert.Equal(t, `^((?:\w+)/(\d+))$`, p.Source())

	fields, ok = p.MatchString("that/42")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"c": "that/42", "cn": "42"}, fields)
}

func TestCompile_RoundTrip(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:    testSpec(t),
		Format:  "%d %c %b",
		Capture: []logrex.CaptureInstruction{logrex.Field("c")},
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, p.Fields())

	fields, ok := p.MatchString("foo that/42 this")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"c": "that/42"}, fields)

	// Anchored: a partial line must not match.
	_, ok = p.MatchString("xx foo that/42 this yy")
	assert.False(t, ok)
}

func TestCompile_AliasExpansion(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:    testSpec(t),
		Format:  ":dcb",
		Capture: []logrex.CaptureInstruction{logrex.Field("c")},
	})
	require.NoError(t, err)

	// The raw format accessor keeps the alias name...
	assert.Equal(t, ":dcb", c.Format())

	// ...while the compiled pattern reflects the expansion.
	p, err := c.Compile()
	require.NoError(t, err)
	fields, ok := p.MatchString("bar this/7 that")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"c": "this/7"}, fields)
}

func TestCompile_LiteralTextEscaped(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:    testSpec(t),
		Format:  "[%a] (ok)",
		Capture: []logrex.CaptureInstruction{logrex.Field("a")},
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)

	fields, ok := p.MatchString("[42] (ok)")
	require.True(t, ok)
	assert.Equal(t, "42", fields["a"])

	// The brackets are literal, not a character class.
	_, ok = p.MatchString("4 (ok)")
	assert.False(t, ok)
}

func TestCompile_UnknownTokenIsLiteral(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:    testSpec(t),
		Format:  "%z %a",
		Capture: []logrex.CaptureInstruction{logrex.Field("a")},
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)

	fields, ok := p.MatchString("%z 42")
	require.True(t, ok)
	assert.Equal(t, "42", fields["a"])
}

func TestSetFormat_InvalidatesCompiledPattern(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:    testSpec(t),
		Format:  "%a",
		Capture: []logrex.CaptureInstruction{logrex.SelectAll},
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)
	_, ok := p.MatchString("42")
	require.True(t, ok)

	c.SetFormat("%b")
	p, err = c.Compile()
	require.NoError(t, err)

	_, ok = p.MatchString("42")
	assert.False(t, ok)
	fields, ok := p.MatchString("this")
	require.True(t, ok)
	assert.Equal(t, "this", fields["b"])
}

func TestHooks(t *testing.T) {
	// The pre-hook edits the escaped intermediate string before token
	// substitution; here it rewrites '@' into a token.
	s, err := spec.New(spec.Config{
		Tokens: map[string]string{"%a": `(?#=a)\d+(?#!a)`},
		PreHook: func(in string) string {
			return strings.ReplaceAll(in, "@", "%a")
		},
		PostHook: func(in string) string {
			return in + `;?`
		},
	})
	require.NoError(t, err)

	c, err := logrex.New(logrex.Config{
		Spec:    s,
		Format:  "@",
		Capture: []logrex.CaptureInstruction{logrex.Field("a")},
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)

	fields, ok := p.MatchString("42;")
	require.True(t, ok)
	assert.Equal(t, "42", fields["a"])
	_, ok = p.MatchString("42")
	assert.True(t, ok)
}

func TestCompile_HookSyntaxErrorSurfaces(t *testing.T) {
	s, err := spec.New(spec.Config{
		Tokens:   map[string]string{"%a": `(?#=a)\d+(?#!a)`},
		PostHook: func(in string) string { return in + "(" },
	})
	require.NoError(t, err)

	c, err := logrex.New(logrex.Config{Spec: s, Format: "%a"})
	require.NoError(t, err)

	_, err = c.Compile()
	require.Error(t, err)
	var cmpErr *logrex.CompileError
	require.True(t, errors.As(err, &cmpErr))
	assert.NotEmpty(t, cmpErr.Source)
	assert.NotNil(t, cmpErr.Cause)
}

func TestComments_AnnotatedPattern(t *testing.T) {
	c, err := logrex.New(logrex.Config{
		Spec:     testSpec(t),
		Format:   "%a",
		Comments: true,
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)
	assert.Contains(t, p.Annotated(), "(?#=a)")
	assert.NotContains(t, p.Source(), "(?#=a)")

	c.SetComments(false)
	assert.False(t, c.Comments())
	p, err = c.Compile()
	require.NoError(t, err)
	assert.Empty(t, p.Annotated())
}

func TestTrace(t *testing.T) {
	var buf bytes.Buffer
	c, err := logrex.New(logrex.Config{
		Spec:        testSpec(t),
		Format:      "%a %b",
		Capture:     []logrex.CaptureInstruction{logrex.Field("a")},
		Trace:       true,
		TraceWriter: &buf,
	})
	require.NoError(t, err)
	require.True(t, c.Trace())

	p, err := c.Compile()
	require.NoError(t, err)

	// Only 'a' is reported as a capture even though trace mode groups
	// every field.
	assert.Equal(t, []string{"a"}, p.Fields())

	fields, ok := p.MatchString("42 this")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"a": "42"}, fields)

	// One leading newline per attempt, then each matched field name
	// with its separator, in template order.
	assert.Equal(t, "\na:b:", buf.String())

	// A failed attempt still emits its newline, but no field names.
	buf.Reset()
	_, ok = p.MatchString("no match")
	assert.False(t, ok)
	assert.Equal(t, "\n", buf.String())
}

func TestTrace_NestedFields(t *testing.T) {
	var buf bytes.Buffer
	c, err := logrex.New(logrex.Config{
		Spec:        testSpec(t),
		Format:      "%c",
		Trace:       true,
		TraceWriter: &buf,
	})
	require.NoError(t, err)

	p, err := c.Compile()
	require.NoError(t, err)

	_, ok := p.MatchString("word/9")
	require.True(t, ok)
	assert.Equal(t, "\nc:cs:cn:", buf.String())
}

func TestParseCapture(t *testing.T) {
	c, err := logrex.New(logrex.Config{Spec: testSpec(t)})
	require.NoError(t, err)

	got := c.SetCapture(logrex.ParseCapture("none", "b", "a")...)
	assert.Equal(t, []string{"a", "b"}, got)

	got = c.SetCapture(logrex.ParseCapture("none")...)
	assert.Empty(t, got)
}
