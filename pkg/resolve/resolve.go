// Package resolve turns rule "specs" into text.
//
// A spec is either the name of a file inside one of the mods' replacement
// folders or inline text. Resolution never fails: a spec that names no file
// is returned unchanged as literal text. Result.Kind tells the two apart.
package resolve

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/spf13/afero"
)

// Kind tags how a spec was resolved.
type Kind int

const (
	// Literal means no file matched and the spec itself is the text.
	Literal Kind = iota
	// Resolved means the text was read from Path.
	Resolved
)

func (k Kind) String() string {
	if k == Resolved {
		return "resolved"
	}
	return "literal"
}

// Result is the outcome of resolving one spec.
type Result struct {
	Text string
	Kind Kind
	Path string
}

// Resolver searches a list of directories for spec files.
type Resolver struct {
	fs   afero.Fs
	dirs []string
}

// New creates a resolver over dirs, given in registration order.
func New(fs afero.Fs, dirs ...string) *Resolver {
	r := &Resolver{fs: fs}
	for _, d := range dirs {
		r.Add(d)
	}
	return r
}

// Add registers another search directory. Directories added later are
// searched first.
func (r *Resolver) Add(dir string) {
	r.dirs = append(r.dirs, dir)
}

// Dirs returns the search directories in registration order.
func (r *Resolver) Dirs() []string {
	out := make([]string, len(r.dirs))
	copy(out, r.dirs)
	return out
}

// Resolve looks spec up as a path relative to the working directory, then in
// each search directory from the most recently added, and finally returns
// spec itself as literal text.
func (r *Resolver) Resolve(spec string) Result {
	if res, ok := r.readLiteralPath(spec); ok {
		return res
	}
	if !plausibleName(spec) {
		return Result{Text: spec, Kind: Literal}
	}
	for i := len(r.dirs) - 1; i >= 0; i-- {
		candidate := filepath.Join(r.dirs[i], spec)
		if res, ok := r.read(candidate); ok {
			return res
		}
	}
	return Result{Text: spec, Kind: Literal}
}

// Text is Resolve(spec).Text.
func (r *Resolver) Text(spec string) string {
	return r.Resolve(spec).Text
}

func (r *Resolver) readLiteralPath(spec string) (Result, bool) {
	if !plausibleName(spec) {
		return Result{}, false
	}
	return r.read(spec)
}

func (r *Resolver) read(path string) (Result, bool) {
	info, err := r.fs.Stat(path)
	if err != nil || info.IsDir() {
		return Result{}, false
	}
	text, err := filesystem.ReadTextLossy(r.fs, path)
	if err != nil {
		logger := logging.GetLogger("resolve")
		logger.Debug().Err(err).Str("path", path).Msg("Spec file unreadable")
		return Result{}, false
	}
	return Result{Text: text, Kind: Resolved, Path: path}, true
}

// plausibleName filters out specs that cannot be file names, such as inline
// code spanning several lines.
func plausibleName(spec string) bool {
	if spec == "" || strings.ContainsAny(spec, "\n\r\x00") {
		return false
	}
	return len(spec) < 4096
}
