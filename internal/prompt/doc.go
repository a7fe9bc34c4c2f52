// Package prompt provides Prompter implementations for the resolver.
//
// Terminal asks a human on a line-oriented terminal, Policy answers from a
// YAML rule file without asking anyone, and Bridge hands requests to
// another goroutine (a UI loop or a test) over a channel.
package prompt
