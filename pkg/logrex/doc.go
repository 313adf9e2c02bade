// Package logrex compiles symbolic log-format templates into regular
// expressions that extract a chosen subset of named, possibly nested
// fields from log lines.
//
// A template is a short string describing a log line's layout, such as
// "%h %t %r %s". Each token (%h, %t, ...) is defined by a
// specialization — a [spec.Spec] carrying a token table, an alias
// table and optional rewrite hooks — and expands to a pattern fragment
// whose named regions are delimited by field markers. Only the fields
// the caller asks for become capturing groups; everything else is
// collapsed to non-capturing groups, so group numbering always follows
// the fields' left-to-right appearance in the template.
//
// # Basic Usage
//
//	c, err := logrex.New(logrex.Config{
//	    Spec:    clf.New(),
//	    Format:  ":common",
//	    Capture: []logrex.CaptureInstruction{logrex.Field("host"), logrex.Field("status")},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := c.Compile()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fields, ok := p.MatchString(line)
//	if ok {
//	    fmt.Println(fields["host"], fields["status"])
//	}
//
// # Capture Instructions
//
// SetCapture takes a mix of field names and directives, applied left
// to right:
//
//	c.SetCapture(logrex.SelectNone)                      // capture nothing
//	c.SetCapture(logrex.SelectAll)                       // every field the table can produce
//	c.SetCapture(logrex.SelectNone, logrex.Field("req")) // exactly one field
//
// Requesting a field the current template cannot produce is not an
// error; it is simply absent from the resulting capture order.
//
// # Custom Specializations
//
// Define token tables in code with [spec.New], or load them from YAML
// files with [spec.NewFromFile]:
//
//	s, err := spec.NewFromFile("myformat.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := logrex.New(logrex.Config{Spec: s})
//
// # Trace Mode
//
// With trace enabled, every compiled field reports its name to the
// trace writer as match attempts run, which helps diagnose why a
// template stops matching partway through a line. See [Config.Trace].
package logrex
