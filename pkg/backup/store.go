// Package backup keeps pristine copies of game files.
//
// A backup lives at <root>/<label>/<relative path> and is created the first
// time a file is patched. It is never refreshed afterwards, so it always
// holds the file as it was before any mod touched it. The presence of a
// backup is the only record that a file was ever modified.
package backup

import (
	"path/filepath"

	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/internal/hashutil"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/spf13/afero"
)

// Outcome describes what Ensure found or did.
type Outcome int

const (
	// Missing means neither a backup nor a live file exists.
	Missing Outcome = iota
	// Created means the live file was copied to a new backup.
	Created
	// AlreadyPresent means a backup existed and was left alone.
	AlreadyPresent
	// LiveMissing means only the backup exists; it is the source to read.
	LiveMissing
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case AlreadyPresent:
		return "already-present"
	case LiveMissing:
		return "live-missing"
	default:
		return "missing"
	}
}

// Store is a backup tree rooted at Root.
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore returns a store rooted at root. Nothing is created on disk until
// the first backup.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Root returns the backup root.
func (s *Store) Root() string { return s.root }

// Path returns where the backup of (label, rel) lives. rel uses forward
// slashes.
func (s *Store) Path(label, rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(label), filepath.FromSlash(rel))
}

// Exists reports whether a backup of (label, rel) exists.
func (s *Store) Exists(label, rel string) bool {
	return filesystem.Exists(s.fs, s.Path(label, rel))
}

// Ensure makes sure a backup of the live file exists. An existing backup is
// never overwritten. A copy failure is returned with outcome Missing.
func (s *Store) Ensure(label, rel, livePath string) (Outcome, error) {
	backupExists := s.Exists(label, rel)
	liveExists := filesystem.Exists(s.fs, livePath)

	switch {
	case backupExists && liveExists:
		return AlreadyPresent, nil
	case backupExists:
		return LiveMissing, nil
	case !liveExists:
		return Missing, nil
	}

	dst := s.Path(label, rel)
	if err := filesystem.CopyFile(s.fs, livePath, dst); err != nil {
		return Missing, errors.Wrapf(err, errors.ErrBackupCreate, "failed to back up %s", livePath).
			WithDetail("label", label).
			WithDetail("path", rel)
	}
	logger := logging.GetLogger("backup")
	logger.Debug().
		Str("label", label).
		Str("path", rel).
		Str("backup", dst).
		Msg("Backup created")
	return Created, nil
}

// SourcePath returns the backup path when a backup exists, else livePath.
// Patching always starts from the original content.
func (s *Store) SourcePath(label, rel, livePath string) string {
	if s.Exists(label, rel) {
		return s.Path(label, rel)
	}
	return livePath
}

// Files lists every backup file.
func (s *Store) Files() ([]string, error) {
	return filesystem.ListFiles(s.fs, s.root)
}

// HasBackups reports whether at least one backup file exists.
func (s *Store) HasBackups() bool {
	files, err := s.Files()
	return err == nil && len(files) > 0
}

// Stats summarizes the store for status displays.
type Stats struct {
	Files   int
	Bytes   int64
	Labels  []string
	Present bool
}

// Stat walks the store and returns counts and total size.
func (s *Store) Stat() (Stats, error) {
	files, err := s.Files()
	if err != nil {
		return Stats{}, err
	}
	st := Stats{Files: len(files), Present: len(files) > 0}
	seen := map[string]bool{}
	for _, f := range files {
		if info, err := s.fs.Stat(f); err == nil {
			st.Bytes += info.Size()
		}
		rel, err := filepath.Rel(s.root, f)
		if err != nil {
			continue
		}
		parts := splitParts(rel)
		if len(parts) == 0 {
			continue
		}
		label := parts[0]
		if label == "workshop" && len(parts) > 2 {
			label = parts[0] + "/" + parts[1]
		}
		if !seen[label] {
			seen[label] = true
			st.Labels = append(st.Labels, label)
		}
	}
	return st, nil
}

// Drift counts how backed up files compare with their live copies.
type Drift struct {
	Patched   int
	Unchanged int
	// LiveMissing counts backups whose live file is gone.
	LiveMissing int
	// Unmapped counts backups no target label matches.
	Unmapped int
}

// Drift compares every backup with the live file it maps to under targets.
func (s *Store) Drift(targets []Target) (Drift, error) {
	var d Drift
	files, err := s.Files()
	if err != nil {
		return d, err
	}
	labels := labelIndex(targets)
	for _, f := range files {
		rel, err := filepath.Rel(s.root, f)
		if err != nil {
			d.Unmapped++
			continue
		}
		parts := splitParts(rel)
		target, ok := bestTarget(parts, labels)
		if !ok {
			d.Unmapped++
			continue
		}
		live := filepath.Join(append([]string{target.Root}, parts[len(splitParts(target.Label)):]...)...)
		if !filesystem.Exists(s.fs, live) {
			d.LiveMissing++
			continue
		}
		same, err := hashutil.SameContent(s.fs, f, live)
		if err != nil {
			return d, errors.Wrapf(err, errors.ErrFileRead, "failed to compare %s", live)
		}
		if same {
			d.Unchanged++
		} else {
			d.Patched++
		}
	}
	return d, nil
}
