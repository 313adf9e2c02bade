package template

import (
	"regexp"
	"sort"
	"strings"
)

// Escape quotes every regex metacharacter in raw so literal template
// text never acquires special meaning. Tokens such as "%h" contain no
// metacharacters and survive escaping unchanged.
func Escape(raw string) string {
	return regexp.QuoteMeta(raw)
}

// Substitute replaces every non-overlapping token occurrence in s with
// its fragment from tokens. The scan is a single left-to-right pass and
// substituted fragments are never rescanned, so a fragment can safely
// contain text that looks like a token.
//
// When several tokens could match at the same position, the longest
// wins; equal-length candidates are broken lexicographically-last.
// Token sets should not be ambiguous in the first place.
func Substitute(s string, tokens map[string]string) string {
	if len(tokens) == 0 {
		return s
	}
	keys := make([]string, 0, len(tokens))
	for k := range tokens {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] > keys[j]
	})

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		matched := false
		for _, k := range keys {
			if strings.HasPrefix(s[i:], k) {
				b.WriteString(tokens[k])
				i += len(k)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
