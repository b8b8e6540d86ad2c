// Package scanner finds named functions in C-like source text.
//
// This is a heuristic, not a parser. Headers are recognized with regular
// expressions on comment-stripped lines, and bodies are delimited by counting
// braces. Braces and parentheses inside string or character literals are
// counted like any other, so adversarial source can shift the detected
// boundaries. The Scanner interface exists so that a real parser can be
// dropped in without touching callers.
package scanner
