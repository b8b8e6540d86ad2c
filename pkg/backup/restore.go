package backup

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/arthur-debert/modloader/pkg/report"
)

// Target is a root a label maps back to, for example ("basegame", <game>)
// or ("workshop/123", <item>).
type Target struct {
	Label string
	Root  string
}

// RestoreResult counts what a reset or purge did.
type RestoreResult struct {
	Restored int
	Removed  int
	Unmapped int
	Failed   int
	// RootRemoved is set when the backup root was empty and got deleted.
	RootRemoved bool
}

// FactoryReset copies every backup over its live file and deletes the
// backup. Backups whose label matches no target are left in place. Empty
// directories are pruned afterwards and an empty root is removed.
func (s *Store) FactoryReset(targets []Target, log *report.Stream) RestoreResult {
	logger := logging.GetLogger("backup.reset")
	var res RestoreResult

	if !filesystem.DirExists(s.fs, s.root) {
		log.Info("No backups to restore (backup dir missing).")
		return res
	}
	files, err := s.Files()
	if err != nil {
		log.Error("Could not list backups in %s: %v", s.root, err)
		res.Failed++
		return res
	}
	if len(files) == 0 {
		log.Info("No backup files found to restore.")
		res.RootRemoved = s.prune()
		return res
	}

	labels := labelIndex(targets)
	for _, f := range files {
		name := filepath.Base(f)
		rel, err := filepath.Rel(s.root, f)
		if err != nil {
			res.Failed++
			log.Error("Failed to restore backup %s", name)
			continue
		}
		parts := splitParts(rel)
		target, ok := bestTarget(parts, labels)
		if !ok {
			res.Unmapped++
			log.Warn("Could not map backup file to any target, skipping: %s", name)
			continue
		}

		dest := filepath.Join(append([]string{target.Root}, parts[len(splitParts(target.Label)):]...)...)
		if err := filesystem.CopyFile(s.fs, f, dest); err != nil {
			res.Failed++
			logger.Debug().Err(err).Str("backup", f).Str("dest", dest).Msg("Restore failed")
			log.Error("Failed to restore backup %s", name)
			continue
		}
		res.Restored++
		log.Info("Restored backup: %s", name)

		if err := s.fs.Remove(f); err != nil {
			log.Warn("Could not remove backup file %s", name)
			continue
		}
		res.Removed++
	}

	res.RootRemoved = s.prune()
	if res.RootRemoved {
		log.Info("All original backup files removed.")
	}
	logger.Info().
		Int("restored", res.Restored).
		Int("unmapped", res.Unmapped).
		Int("failed", res.Failed).
		Msg("Factory reset finished")
	return res
}

// PurgeOnly deletes every backup without touching live files.
func (s *Store) PurgeOnly(log *report.Stream) RestoreResult {
	var res RestoreResult

	if !filesystem.DirExists(s.fs, s.root) {
		log.Info("No backups directory found. Nothing to purge.")
		return res
	}
	files, err := s.Files()
	if err != nil {
		log.Error("Could not list backups in %s: %v", s.root, err)
		res.Failed++
		return res
	}
	if len(files) == 0 {
		log.Info("No backup files found. Nothing to purge.")
	}
	for _, f := range files {
		if err := s.fs.Remove(f); err != nil {
			res.Failed++
			log.Warn("Could not delete backup file %s: %v", f, err)
			continue
		}
		res.Removed++
	}

	res.RootRemoved = s.prune()
	if res.RootRemoved {
		log.Info("All backup files removed, backup directory deleted.")
	}
	logger := logging.GetLogger("backup.purge")
	logger.Info().Int("removed", res.Removed).Msg("Purge finished")
	return res
}

func (s *Store) prune() bool {
	return filesystem.PruneEmptyDirs(s.fs, s.root, true)
}

type labelEntry struct {
	parts  []string
	target Target
}

func labelIndex(targets []Target) []labelEntry {
	out := make([]labelEntry, 0, len(targets))
	for _, t := range targets {
		out = append(out, labelEntry{parts: splitParts(t.Label), target: t})
	}
	return out
}

// bestTarget picks the target whose label is the longest path-component
// prefix of parts. A label must leave at least one component for the file.
func bestTarget(parts []string, labels []labelEntry) (Target, bool) {
	var best Target
	bestLen := 0
	for _, l := range labels {
		n := len(l.parts)
		if n == 0 || n >= len(parts) || n <= bestLen {
			continue
		}
		if equalParts(parts[:n], l.parts) {
			best, bestLen = l.target, n
		}
	}
	return best, bestLen > 0
}

func equalParts(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func splitParts(p string) []string {
	var out []string
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part != "" && part != "." {
			out = append(out, part)
		}
	}
	return out
}
