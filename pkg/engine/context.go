// Package engine applies the merged rules of every enabled mod to the game
// files.
//
// A run discovers mods, merges their rules, then visits every path named by
// any rule under every target root (the game install and each workshop
// item). For each file it makes sure a pristine backup exists, reads the
// backup, applies function-scoped rules, file-level line rules, additions
// and whole-file replacements in that order, and writes the result only when
// it differs from the live file. Since the source is always the backup,
// repeated runs with the same rules produce the same output.
//
// Failures are per file: they are logged to the run log and counted, and
// the run moves on.
package engine

import (
	"io"
	"path/filepath"

	"github.com/arthur-debert/modloader/pkg/backup"
	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/mods"
	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/arthur-debert/modloader/pkg/resolve"
	"github.com/arthur-debert/modloader/pkg/scanner"
	"github.com/spf13/afero"
)

// Config holds what a run needs to know about the installation.
type Config struct {
	FS       afero.Fs
	GameRoot string
	ModsDir  string
	// BackupDir defaults to <ModsDir>/../assets/backups/original_game_files.
	BackupDir string
	// WorkshopRoot overrides the content root derived from GameRoot. Set
	// NoWorkshop to ignore workshop content entirely.
	WorkshopRoot string
	NoWorkshop   bool
	AppID        string
	ToolFolder   string
	ContentDirs  []string
	// RuleFiles are the rule file names looked up in each mod, in order.
	RuleFiles []string

	Log     *report.Stream
	Scanner scanner.Scanner
}

// Context is everything a single run works with. It is built once by
// NewContext and not shared between runs.
type Context struct {
	FS           afero.Fs
	GameRoot     string
	ModsDir      string
	WorkshopRoot string
	ToolFolder   string
	RuleFiles    []string
	ContentDirs  []string

	Backups   *backup.Store
	Log       *report.Stream
	Scanner   scanner.Scanner
	Mods      []mods.Mod
	Targets   []backup.Target
	Resolvers *resolve.Set

	DryRun  bool
	DiffOut io.Writer
}

// DefaultBackupDir returns the backup root used when none is configured.
func DefaultBackupDir(modsDir string) string {
	return filepath.Join(filepath.Dir(modsDir), "assets", "backups", "original_game_files")
}

// NewContext validates cfg and fills in defaults. Mods and targets are
// discovered by Run.
func NewContext(cfg Config) (*Context, error) {
	if cfg.FS == nil {
		cfg.FS = filesystem.NewOS()
	}
	if cfg.GameRoot == "" {
		return nil, errors.New(errors.ErrInvalidInput, "game root is not set")
	}
	if !filesystem.DirExists(cfg.FS, cfg.GameRoot) {
		return nil, errors.Newf(errors.ErrNotFound, "game root does not exist: %s", cfg.GameRoot).
			WithDetail("path", cfg.GameRoot)
	}
	if cfg.ModsDir == "" {
		return nil, errors.New(errors.ErrInvalidInput, "mods directory is not set")
	}
	if cfg.BackupDir == "" {
		cfg.BackupDir = DefaultBackupDir(cfg.ModsDir)
	}
	if cfg.Log == nil {
		cfg.Log = report.NewStream()
	}
	if cfg.Scanner == nil {
		cfg.Scanner = scanner.NewBraceScanner()
	}

	workshop := cfg.WorkshopRoot
	if workshop == "" && !cfg.NoWorkshop {
		workshop = FindWorkshopContentRoot(cfg.GameRoot, cfg.AppID)
	}
	if cfg.NoWorkshop {
		workshop = ""
	}

	return &Context{
		FS:           cfg.FS,
		GameRoot:     cfg.GameRoot,
		ModsDir:      cfg.ModsDir,
		WorkshopRoot: workshop,
		ToolFolder:   cfg.ToolFolder,
		RuleFiles:    cfg.RuleFiles,
		ContentDirs:  cfg.ContentDirs,
		Backups:      backup.NewStore(cfg.FS, cfg.BackupDir),
		Log:          cfg.Log,
		Scanner:      cfg.Scanner,
	}, nil
}
