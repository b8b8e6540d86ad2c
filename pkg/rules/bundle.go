package rules

import (
	"sort"
	"strings"
)

// Addition positions
const (
	PositionBegin = "begin"
	PositionStart = "start"
	PositionEnd   = "end"
)

// Pair is one (old, new) replacement rule. Both sides are specs.
type Pair struct {
	Old string
	New string
}

// Addition prepends or appends the text named by Spec.
type Addition struct {
	Position string
	Spec     string
}

// AtStart reports whether the addition is prepended. "start" is accepted as
// an alias of "begin".
func (a Addition) AtStart() bool {
	p := strings.ToLower(strings.TrimSpace(a.Position))
	return p == PositionBegin || p == PositionStart
}

// KnownPosition reports whether Position is one of the recognized values.
func (a Addition) KnownPosition() bool {
	p := strings.ToLower(strings.TrimSpace(a.Position))
	return p == PositionBegin || p == PositionStart || p == PositionEnd
}

// Bundle is the in-memory form of one mod's rules, or of the merged rules of
// all mods.
type Bundle struct {
	LineReplacements     map[string]map[string][]Pair
	FunctionReplacements map[string]map[string]string
	FileLineReplacements map[string][]Pair
	FileAdditions        map[string][]Addition
	FileReplacements     map[string]string
}

// NewBundle returns an empty bundle with every category initialized.
func NewBundle() *Bundle {
	return &Bundle{
		LineReplacements:     make(map[string]map[string][]Pair),
		FunctionReplacements: make(map[string]map[string]string),
		FileLineReplacements: make(map[string][]Pair),
		FileAdditions:        make(map[string][]Addition),
		FileReplacements:     make(map[string]string),
	}
}

// IsEmpty reports whether the bundle holds no rules at all.
func (b *Bundle) IsEmpty() bool {
	return len(b.Paths()) == 0
}

// Paths returns the sorted union of the path keys of all five categories.
// These are the only files a run ever opens.
func (b *Bundle) Paths() []string {
	seen := make(map[string]struct{})
	for k := range b.LineReplacements {
		seen[k] = struct{}{}
	}
	for k := range b.FunctionReplacements {
		seen[k] = struct{}{}
	}
	for k := range b.FileLineReplacements {
		seen[k] = struct{}{}
	}
	for k := range b.FileAdditions {
		seen[k] = struct{}{}
	}
	for k := range b.FileReplacements {
		seen[k] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for k := range seen {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

// FileRules is the slice of a bundle that applies to a single path.
type FileRules struct {
	Path           string
	Lines          map[string][]Pair
	Functions      map[string]string
	FileLines      []Pair
	Additions      []Addition
	Replacement    string
	HasReplacement bool
}

// For returns the rules registered for path.
func (b *Bundle) For(path string) FileRules {
	fr := FileRules{
		Path:      path,
		Lines:     b.LineReplacements[path],
		Functions: b.FunctionReplacements[path],
		FileLines: b.FileLineReplacements[path],
		Additions: b.FileAdditions[path],
	}
	fr.Replacement, fr.HasReplacement = b.FileReplacements[path]
	return fr
}

// FunctionNames returns the sorted union of function names that have either
// line rules or a whole-function replacement.
func (fr FileRules) FunctionNames() []string {
	seen := make(map[string]struct{}, len(fr.Lines)+len(fr.Functions))
	for name := range fr.Lines {
		seen[name] = struct{}{}
	}
	for name := range fr.Functions {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NormalizePath turns a rule key into the canonical game-relative form:
// forward slashes, no leading "./" and no leading "/".
func NormalizePath(p string) string {
	s := strings.ReplaceAll(p, `\`, "/")
	for {
		switch {
		case strings.HasPrefix(s, "./"):
			s = s[2:]
		case strings.HasPrefix(s, "/"):
			s = s[1:]
		default:
			return s
		}
	}
}
