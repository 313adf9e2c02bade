package template

// Resolve walks a tagged template left to right and turns each
// field-marked region into a real group: capturing when captured
// reports true for the field's name, non-capturing otherwise.
//
// The scan keeps a cursor and repeatedly locates the next start marker
// at or after it. The matching end marker is found by bracket matching
// on the field's name alone: end markers belonging to other, more
// deeply nested fields are not terminators. The whole span, markers
// included, is wrapped in the chosen group and the cursor advances to
// just past the start marker that was processed — not past the wrapped
// span — so nested markers inside it are revisited and get their own
// grouping decision on a later iteration. Recursion is expressed as
// this repeated scan, never as call depth, so nesting depth is bounded
// only by input length.
//
// The second result lists the names that received capturing groups, in
// the order their start markers were first visited. Group N of the
// resolved pattern binds the Nth name in that list.
func Resolve(tagged string, captured func(name string) bool) (string, []string) {
	var order []string
	s := tagged
	cur := 0
	for {
		m, ok := nextStart(s, cur)
		if !ok {
			break
		}
		end, ok := matchingEnd(s, m)
		if !ok {
			// Unbalanced fragment. Tables are validated at
			// registration, so this is unreachable for well-formed
			// input; skip the marker rather than loop forever.
			cur = m.end
			continue
		}
		open := "(?:"
		if captured(m.name) {
			open = "("
			order = append(order, m.name)
		}
		s = s[:m.pos] + open + s[m.pos:end] + ")" + s[end:]
		cur = m.end + len(open)
	}
	return s, order
}

// matchingEnd returns the offset just past the end marker that closes
// start, counting nested same-name regions so that a field containing
// a child of the same name still pairs with its own end marker.
func matchingEnd(s string, start marker) (int, bool) {
	depth := 1
	for i := start.end; ; {
		m, ok := nextMarker(s, i)
		if !ok {
			return 0, false
		}
		if m.name == start.name {
			if m.start {
				depth++
			} else {
				depth--
				if depth == 0 {
					return m.end, true
				}
			}
		}
		i = m.end
	}
}
