package testutil

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// FailingFS wraps an afero.Fs and fails write operations on chosen paths.
// Reads always pass through so tests can still inspect state.
type FailingFS struct {
	afero.Fs

	mu         sync.Mutex
	errorPaths map[string]error
	writeCount int
}

// NewFailingFS wraps base.
func NewFailingFS(base afero.Fs) *FailingFS {
	return &FailingFS{Fs: base, errorPaths: make(map[string]error)}
}

// FailWrites makes every write to path return err.
func (f *FailingFS) FailWrites(path string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errorPaths[filepath.Clean(path)] = err
}

// WriteCount returns how many files were opened for writing.
func (f *FailingFS) WriteCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeCount
}

func (f *FailingFS) check(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errorPaths[filepath.Clean(path)]
}

func (f *FailingFS) Create(name string) (afero.File, error) {
	if err := f.check(name); err != nil {
		return nil, &os.PathError{Op: "create", Path: name, Err: err}
	}
	f.countWrite()
	return f.Fs.Create(name)
}

func (f *FailingFS) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_TRUNC|os.O_APPEND) != 0 {
		if err := f.check(name); err != nil {
			return nil, &os.PathError{Op: "open", Path: name, Err: err}
		}
		f.countWrite()
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FailingFS) Remove(name string) error {
	if err := f.check(name); err != nil {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Fs.Remove(name)
}

func (f *FailingFS) Chtimes(name string, atime, mtime time.Time) error {
	if err := f.check(name); err != nil {
		return &os.PathError{Op: "chtimes", Path: name, Err: err}
	}
	return f.Fs.Chtimes(name, atime, mtime)
}

func (f *FailingFS) Name() string { return "FailingFS" }

func (f *FailingFS) countWrite() {
	f.mu.Lock()
	f.writeCount++
	f.mu.Unlock()
}
