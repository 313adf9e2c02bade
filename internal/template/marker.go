// Package template implements the core machinery for log-format
// templates: escaping literal text, substituting tokens with tagged
// pattern fragments, and resolving field markers into capturing or
// non-capturing groups.
package template

import (
	"fmt"
	"strings"
)

// Field marker syntax embedded in tagged fragments.
// A start marker "(?#=name)" opens the span of field "name";
// the end marker "(?#!name)" closes it. Markers may nest.
const (
	startPrefix = "(?#="
	endPrefix   = "(?#!"
)

// marker is one decoded field marker occurrence within a string.
type marker struct {
	name  string
	start bool
	pos   int // byte offset of the opening '('
	end   int // byte offset just past the closing ')'
}

// validName reports whether s is a legal field name:
// an identifier of ASCII letters, digits and underscores,
// not starting with a digit.
func validName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// nextMarker finds the first well-formed marker at or after from.
// Text that merely resembles a marker (bad name, missing ')') is
// skipped, matching how ordinary regex text passes through untouched.
func nextMarker(s string, from int) (marker, bool) {
	for i := from; i < len(s); {
		rel := strings.Index(s[i:], "(?#")
		if rel < 0 {
			return marker{}, false
		}
		pos := i + rel
		rest := s[pos+3:]
		if len(rest) == 0 || (rest[0] != '=' && rest[0] != '!') {
			i = pos + 3
			continue
		}
		closing := strings.IndexByte(rest, ')')
		if closing < 0 {
			return marker{}, false
		}
		name := rest[1:closing]
		if !validName(name) {
			i = pos + 3
			continue
		}
		return marker{
			name:  name,
			start: rest[0] == '=',
			pos:   pos,
			end:   pos + 3 + closing + 1,
		}, true
	}
	return marker{}, false
}

// nextStart finds the first start marker at or after from.
func nextStart(s string, from int) (marker, bool) {
	for i := from; ; {
		m, ok := nextMarker(s, i)
		if !ok {
			return marker{}, false
		}
		if m.start {
			return m, true
		}
		i = m.end
	}
}

// FieldNames returns the names of all start markers in s, in order of
// first appearance, without duplicates.
func FieldNames(s string) []string {
	var names []string
	seen := make(map[string]struct{})
	for i := 0; ; {
		m, ok := nextStart(s, i)
		if !ok {
			return names
		}
		if _, dup := seen[m.name]; !dup {
			seen[m.name] = struct{}{}
			names = append(names, m.name)
		}
		i = m.end
	}
}

// Validate checks that every field marker in s is properly paired:
// each end marker closes the most recently opened marker, markers
// never interleave, and names at the top level of s do not repeat.
// A fragment that fails Validate has undefined resolution behavior,
// so specialization tables are checked at registration time.
func Validate(s string) error {
	var stack []string
	seenTop := make(map[string]struct{})
	for i := 0; ; {
		m, ok := nextMarker(s, i)
		if !ok {
			break
		}
		if m.start {
			if len(stack) == 0 {
				if _, dup := seenTop[m.name]; dup {
					return fmt.Errorf("duplicate top-level field %q", m.name)
				}
				seenTop[m.name] = struct{}{}
			}
			stack = append(stack, m.name)
		} else {
			if len(stack) == 0 {
				return fmt.Errorf("end marker for field %q without matching start", m.name)
			}
			top := stack[len(stack)-1]
			if top != m.name {
				return fmt.Errorf("end marker for field %q interleaves with open field %q", m.name, top)
			}
			stack = stack[:len(stack)-1]
		}
		i = m.end
	}
	if len(stack) > 0 {
		return fmt.Errorf("unclosed field marker %q", stack[len(stack)-1])
	}
	return nil
}

// Strip removes all well-formed field markers from s, leaving only
// the executable pattern text.
func Strip(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for {
		m, ok := nextMarker(s, i)
		if !ok {
			b.WriteString(s[i:])
			return b.String()
		}
		b.WriteString(s[i:m.pos])
		i = m.end
	}
}
