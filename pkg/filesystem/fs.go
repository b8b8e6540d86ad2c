package filesystem

import (
	"bytes"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewOS returns the real operating system filesystem
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// Exists reports whether path exists and is a regular file.
func Exists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists reports whether path exists and is a directory.
func DirExists(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ReadText reads path and fails with ErrFileEncoding when the content is not
// valid UTF-8.
func ReadText(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrapf(err, errors.ErrNotFound, "file not found: %s", path)
		}
		return "", errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path)
	}
	if !utf8.Valid(data) {
		return "", errors.Newf(errors.ErrFileEncoding, "%s is not valid UTF-8", path)
	}
	return string(data), nil
}

// ReadTextLossy reads path, replacing invalid UTF-8 sequences with U+FFFD
// instead of failing.
func ReadTextLossy(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileRead, "failed to read %s", path)
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�"))), nil
	}
	return string(decoded), nil
}

// WriteText writes content to path, creating parent directories. The mode of
// an existing file is kept.
func WriteText(fs afero.Fs, path, content string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", path)
	}
	perm := iofs.FileMode(0644)
	if info, err := fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(fs, path, []byte(content), perm); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return nil
}

// CopyFile copies src to dst, creating parent directories and carrying over
// the permission bits and modification time.
func CopyFile(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to stat %s", src)
	}
	if err := fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "failed to create directory for %s", dst)
	}

	in, err := fs.Open(src)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileRead, "failed to open %s", src)
	}
	defer func() { _ = in.Close() }()

	out, err := fs.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to create %s", dst)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to copy %s to %s", src, dst)
	}
	if err := out.Close(); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to close %s", dst)
	}

	_ = fs.Chmod(dst, info.Mode().Perm())
	_ = fs.Chtimes(dst, info.ModTime(), info.ModTime())
	return nil
}

// ListFiles returns every regular file below root in lexical order. A
// missing root yields an empty list.
func ListFiles(fs afero.Fs, root string) ([]string, error) {
	if !DirExists(fs, root) {
		return nil, nil
	}
	var files []string
	err := afero.Walk(fs, root, func(path string, info iofs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "failed to walk %s", root)
	}
	sort.Strings(files)
	return files, nil
}

// PruneEmptyDirs removes empty directories below root, deepest first. When
// removeRoot is set and root ends up empty it is removed as well. It reports
// whether root itself was removed.
func PruneEmptyDirs(fs afero.Fs, root string, removeRoot bool) bool {
	if !DirExists(fs, root) {
		return false
	}
	var dirs []string
	_ = afero.Walk(fs, root, func(path string, info iofs.FileInfo, err error) error {
		if err == nil && info.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	sort.SliceStable(dirs, func(i, j int) bool {
		return depth(dirs[i]) > depth(dirs[j])
	})
	for _, d := range dirs {
		if empty, err := afero.IsEmpty(fs, d); err == nil && empty {
			_ = fs.Remove(d)
		}
	}
	if !removeRoot {
		return false
	}
	if empty, err := afero.IsEmpty(fs, root); err == nil && empty {
		return fs.Remove(root) == nil
	}
	return false
}

func depth(path string) int {
	return strings.Count(filepath.ToSlash(filepath.Clean(path)), "/")
}
