package resolve

import (
	"github.com/spf13/afero"
)

// Source is anything that contributes search directories, typically a mod.
type Source interface {
	LinesDir() string
	FunctionsDir() string
	FilesDir() string
}

// Set holds the three per-category resolvers of a run.
type Set struct {
	Lines     *Resolver
	Functions *Resolver
	Files     *Resolver
}

// NewSet builds the resolvers from sources in load order, so that the
// folders of later sources shadow those of earlier ones.
func NewSet[S Source](fs afero.Fs, sources []S) *Set {
	set := &Set{
		Lines:     New(fs),
		Functions: New(fs),
		Files:     New(fs),
	}
	for _, src := range sources {
		set.Lines.Add(src.LinesDir())
		set.Functions.Add(src.FunctionsDir())
		set.Files.Add(src.FilesDir())
	}
	return set
}

// ResolveOld resolves the "old" side of a line rule. It uses the lines
// folders, like the "new" side.
func (s *Set) ResolveOld(spec string) Result {
	return s.Lines.Resolve(spec)
}
