package logrex

import (
	"io"
	"regexp"
)

// group is one capturing group of a compiled pattern. Group N of the
// regexp corresponds to groups[N-1]. In trace mode every field has a
// group but only those in the capture set are reported to callers.
type group struct {
	name     string
	reported bool
}

// Pattern is a compiled log-format template: the anchored regular
// expression plus the ordered list of field names bound to its
// capturing groups. Patterns are immutable and safe for concurrent
// use, except that trace output from concurrent matches will
// interleave on the shared trace writer.
type Pattern struct {
	rx        *regexp.Regexp
	source    string
	annotated string
	fields    []string
	groups    []group
	traceW    io.Writer // nil when trace is off
}

// Regexp returns the underlying compiled regular expression.
func (p *Pattern) Regexp() *regexp.Regexp { return p.rx }

// Source returns the anchored, marker-free pattern text.
func (p *Pattern) Source() string { return p.source }

// Annotated returns the anchored pattern with field markers retained,
// or "" unless the compiler had comments enabled. The annotated form
// is for diagnostics only; it is not valid regexp syntax.
func (p *Pattern) Annotated() string { return p.annotated }

// Fields returns the captured field names in the order their groups
// open in the pattern.
func (p *Pattern) Fields() []string {
	return append([]string(nil), p.fields...)
}

// MatchString matches line against the pattern and, on success, binds
// each captured field name to its matched text. A field whose group
// did not participate in the match (e.g. an optional region) is absent
// from the map.
//
// With trace enabled, each attempt first writes a newline to the trace
// writer, then the name of every field region reached during the
// match, each followed by ":", in left-to-right field order.
func (p *Pattern) MatchString(line string) (map[string]string, bool) {
	if p.traceW != nil {
		io.WriteString(p.traceW, "\n")
	}

	idx := p.rx.FindStringSubmatchIndex(line)
	if idx == nil {
		return nil, false
	}

	if p.traceW != nil {
		for i, g := range p.groups {
			if idx[2*(i+1)] >= 0 {
				io.WriteString(p.traceW, g.name+":")
			}
		}
	}

	fields := make(map[string]string, len(p.fields))
	for i, g := range p.groups {
		if !g.reported {
			continue
		}
		start, end := idx[2*(i+1)], idx[2*(i+1)+1]
		if start >= 0 {
			fields[g.name] = line[start:end]
		}
	}
	return fields, true
}
