// Package clf provides a built-in specialization for Apache-style
// access logs (common and combined log formats).
//
// Tokens:
//
//	%h  host        %l  ident       %u  user
//	%t  timestamp   %r  request     %s  status
//	%b  bytes       %v  vhost       %R  referer
//	%A  agent
//
// The %t timestamp is a parent field "ts" with nested "date", "time"
// and "tz" children; %r is a parent field "req" with nested "method",
// "path" and "proto" children. Capturing a parent yields its whole
// span; capturing a child exposes just that part.
//
// Aliases:
//
//	:common    %h %l %u %t %r %s %b
//	:combined  %h %l %u %t %r %s %b %R %A
package clf

import "github.com/logrex/logrex-go/pkg/logrex/spec"

// access is the shared specialization instance. Specs are immutable,
// so one instance serves every compiler of this format.
var access = spec.MustNew(spec.Config{
	Name:   "clf",
	Format: ":common",
	Tokens: map[string]string{
		"%h": `(?#=host)\S+(?#!host)`,
		"%l": `(?#=ident)\S+(?#!ident)`,
		"%u": `(?#=user)\S+(?#!user)`,
		"%t": `\[(?#=ts)(?#=date)\d{2}/\w{3}/\d{4}(?#!date):(?#=time)\d{2}:\d{2}:\d{2}(?#!time) (?#=tz)[-+]\d{4}(?#!tz)(?#!ts)\]`,
		"%r": `"(?#=req)(?#=method)\w+(?#!method) (?#=path)\S+(?#!path) (?#=proto)[\w/.]+(?#!proto)(?#!req)"`,
		"%s": `(?#=status)\d{3}(?#!status)`,
		"%b": `(?#=bytes)-|\d+(?#!bytes)`,
		"%v": `(?#=vhost)\S+(?#!vhost)`,
		"%R": `"(?#=referer)[^"]*(?#!referer)"`,
		"%A": `"(?#=agent)[^"]*(?#!agent)"`,
	},
	Aliases: map[string]string{
		":common":   `%h %l %u %t %r %s %b`,
		":combined": `%h %l %u %t %r %s %b %R %A`,
	},
})

// New returns the Apache access log specialization.
func New() *spec.Spec {
	return access
}
