// Package matcher compiles "old code" fragments from line rules into
// whitespace-agnostic regular expressions.
//
// Mod authors copy a fragment of the game's source into a rule; the game's
// own formatting may differ. A compiled Pattern therefore matches any run of
// whitespace where the fragment has whitespace, and optional whitespace
// around the operators = + - * / < > and before a semicolon:
//
//	Compile("a = b;") matches "a=b;", "a = b;" and "a  =  b ;"
//
// Replacement text is always inserted literally.
package matcher

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/modloader/pkg/logging"
)

const operatorChars = "=+-*/<>"

// flexible is the pattern allowed around operators.
const flexible = `\s*`

var whitespaceRun = regexp.MustCompile(`\s+`)

// Pattern is a compiled fragment. The zero value never matches.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// Compile builds the pattern for old. An empty or all-whitespace fragment
// yields a pattern that never matches.
func Compile(old string) *Pattern {
	trimmed := strings.TrimSpace(old)
	p := &Pattern{source: trimmed}
	if trimmed == "" {
		return p
	}

	re, err := regexp.Compile("(?s)" + build(trimmed))
	if err == nil {
		p.re = re
		return p
	}

	log := logging.GetLogger("matcher")
	log.Debug().Err(err).Str("fragment", trimmed).Msg("Falling back to literal pattern")

	fallback := whitespaceRun.ReplaceAllLiteralString(regexp.QuoteMeta(trimmed), `\s+`)
	if re, err = regexp.Compile("(?s)" + fallback); err == nil {
		p.re = re
		return p
	}
	log.Warn().Err(err).Str("fragment", trimmed).Msg("Fragment cannot be compiled, it will never match")
	return p
}

// token is one whitespace-delimited piece of the fragment. The flags record
// whether its pattern already tolerates whitespace at either edge.
type token struct {
	pattern       string
	flexibleStart bool
	flexibleEnd   bool
}

func build(trimmed string) string {
	fields := strings.Fields(trimmed)
	tokens := make([]token, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, compileToken(f))
	}

	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 && !tokens[i-1].flexibleEnd && !tok.flexibleStart {
			b.WriteString(`\s+`)
		}
		b.WriteString(tok.pattern)
	}
	return b.String()
}

func compileToken(field string) token {
	var b strings.Builder
	tok := token{}
	runes := []rune(field)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case strings.ContainsRune(operatorChars, r):
			// Operators are taken at most two characters at a time.
			n := 1
			if i+1 < len(runes) && strings.ContainsRune(operatorChars, runes[i+1]) {
				n = 2
			}
			b.WriteString(flexible)
			b.WriteString(regexp.QuoteMeta(string(runes[i : i+n])))
			b.WriteString(flexible)
			if i == 0 {
				tok.flexibleStart = true
			}
			i += n
			tok.flexibleEnd = i == len(runes)
		case r == ';':
			b.WriteString(flexible + ";")
			if i == 0 {
				tok.flexibleStart = true
			}
			tok.flexibleEnd = false
			i++
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
			tok.flexibleEnd = false
			i++
		}
	}
	tok.pattern = b.String()
	return tok
}

// String returns the regular expression, or "" for a never-matching pattern.
func (p *Pattern) String() string {
	if p == nil || p.re == nil {
		return ""
	}
	return p.re.String()
}

// Source returns the trimmed fragment the pattern was built from.
func (p *Pattern) Source() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Valid reports whether the pattern can match anything.
func (p *Pattern) Valid() bool {
	return p != nil && p.re != nil
}

// Match reports whether text contains the fragment.
func (p *Pattern) Match(text string) bool {
	return p.Valid() && p.re.MatchString(text)
}

// ReplaceFirst replaces the first occurrence of the fragment in text with
// repl and returns the new text and the number of replacements (0 or 1).
func (p *Pattern) ReplaceFirst(text, repl string) (string, int) {
	if !p.Valid() {
		return text, 0
	}
	loc := p.re.FindStringIndex(text)
	if loc == nil {
		return text, 0
	}
	return text[:loc[0]] + repl + text[loc[1]:], 1
}

// ReplaceAll replaces every non-overlapping occurrence and returns the count.
func (p *Pattern) ReplaceAll(text, repl string) (string, int) {
	if !p.Valid() {
		return text, 0
	}
	n := len(p.re.FindAllStringIndex(text, -1))
	if n == 0 {
		return text, 0
	}
	return p.re.ReplaceAllLiteralString(text, repl), n
}
