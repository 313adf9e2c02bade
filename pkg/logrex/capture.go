package logrex

// captureKind discriminates the CaptureInstruction variants.
type captureKind int

const (
	captureField captureKind = iota
	captureNone
	captureAll
)

// CaptureInstruction is one step of a capture-set update: select a
// single field, clear the set, or fill it with every field the token
// table can produce. Instructions are applied left to right, so
// "SelectNone, Field(x)" means "exactly x".
type CaptureInstruction struct {
	kind captureKind
	name string
}

// Field selects the named field for capture.
func Field(name string) CaptureInstruction {
	return CaptureInstruction{kind: captureField, name: name}
}

// SelectNone clears the capture set.
var SelectNone = CaptureInstruction{kind: captureNone}

// SelectAll fills the capture set with every field name enumerable
// from the specialization's token table.
var SelectAll = CaptureInstruction{kind: captureAll}

// ParseCapture converts a list of words into capture instructions.
// The reserved words "none" and "all" become the corresponding
// directives; anything else is taken as a field name. Intended for
// command lines and config files where instructions arrive as text.
func ParseCapture(words ...string) []CaptureInstruction {
	out := make([]CaptureInstruction, 0, len(words))
	for _, w := range words {
		switch w {
		case "none":
			out = append(out, SelectNone)
		case "all":
			out = append(out, SelectAll)
		default:
			out = append(out, Field(w))
		}
	}
	return out
}
