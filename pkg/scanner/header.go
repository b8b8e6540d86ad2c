package scanner

import (
	"regexp"
	"sort"
	"strings"
)

var (
	blockComment = regexp.MustCompile(`/\*.*?\*/`)
	lineComment  = regexp.MustCompile(`//.*$`)
)

// StripComments removes /* ... */ spans closed on the same line and a
// trailing // comment. It is used for detection only.
func StripComments(line string) string {
	s := blockComment.ReplaceAllLiteralString(line, "")
	return lineComment.ReplaceAllLiteralString(s, "")
}

// HeaderMatch classifies a line against a function name.
type HeaderMatch int

const (
	// NoHeader means the line does not start a definition of the function.
	NoHeader HeaderMatch = iota
	// PartialHeader means the parameter list continues on following lines.
	PartialHeader
	// CompleteHeader means the whole header, up to ")", is on this line.
	CompleteHeader
)

func (m HeaderMatch) String() string {
	switch m {
	case PartialHeader:
		return "partial"
	case CompleteHeader:
		return "complete"
	default:
		return "none"
	}
}

type headerPatterns struct {
	name     string
	complete *regexp.Regexp
	partial  *regexp.Regexp
}

func compileHeader(name string) headerPatterns {
	quoted := regexp.QuoteMeta(name)
	return headerPatterns{
		name:     name,
		complete: regexp.MustCompile(`^\s*[\w\*\s]*\b` + quoted + `\b\s*\([^;]*\)\s*(\{)?\s*$`),
		partial:  regexp.MustCompile(`^\s*[\w\*\s]*\b` + quoted + `\b\s*\([^;]*$`),
	}
}

func (h headerPatterns) match(line string) HeaderMatch {
	s := StripComments(line)
	if strings.HasSuffix(strings.TrimRight(s, " \t\r\n\v\f"), ";") {
		return NoHeader
	}
	if h.complete.MatchString(s) {
		return CompleteHeader
	}
	if h.partial.MatchString(s) {
		return PartialHeader
	}
	return NoHeader
}

// DetectHeader reports whether line is, or begins, the header of a
// definition of name. Prototypes ending in ";" never match.
func DetectHeader(line, name string) HeaderMatch {
	return compileHeader(name).match(line)
}

// Detector checks lines against a fixed set of function names.
type Detector struct {
	headers []headerPatterns
}

// NewDetector compiles the header patterns for names. Duplicates and empty
// names are ignored; names are checked in sorted order.
func NewDetector(names []string) *Detector {
	uniq := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n != "" {
			uniq[n] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(uniq))
	for n := range uniq {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	d := &Detector{headers: make([]headerPatterns, 0, len(sorted))}
	for _, n := range sorted {
		d.headers = append(d.headers, compileHeader(n))
	}
	return d
}

// Detect returns the first name whose header matches line.
func (d *Detector) Detect(line string) (string, HeaderMatch) {
	for _, h := range d.headers {
		if m := h.match(line); m != NoHeader {
			return h.name, m
		}
	}
	return "", NoHeader
}
