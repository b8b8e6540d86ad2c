package engine

import (
	"io"

	"github.com/arthur-debert/modloader/pkg/backup"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/arthur-debert/modloader/pkg/mods"
	"github.com/arthur-debert/modloader/pkg/resolve"
	"github.com/arthur-debert/modloader/pkg/rules"
)

// Mode selects what a run does after discovery.
type Mode int

const (
	// ModePatch applies the merged rules. It is the default.
	ModePatch Mode = iota
	// ModeFactoryReset restores every backup and removes it.
	ModeFactoryReset
	// ModePurge removes every backup without touching game files.
	ModePurge
)

func (m Mode) String() string {
	switch m {
	case ModeFactoryReset:
		return "factory-reset"
	case ModePurge:
		return "purge"
	default:
		return "patch"
	}
}

// Options tune a single run.
type Options struct {
	Mode Mode
	// DryRun computes every change but creates no backup and writes nothing.
	DryRun bool
	// DiffOut, when set, receives a unified diff of every file that changes.
	DiffOut io.Writer
}

// Result summarizes a run.
type Result struct {
	Mode Mode
	Mods []mods.Mod

	FilesVisited     int
	FilesWritten     int
	LinesChanged     int
	FunctionsSwapped int
	FilesSwapped     int

	// Files holds the statistics of every visited file, in visit order.
	Files []*FileStats
	// Restore is set for ModeFactoryReset and ModePurge.
	Restore *backup.RestoreResult

	Errors   int
	Warnings int
}

// Run executes one engine invocation. The returned error is reserved for
// failures that prevent the run from starting; per-file problems are
// reported through the run log and counted in Result.Errors.
func (c *Context) Run(opts Options) (*Result, error) {
	logger := logging.GetLogger("engine")
	defer logging.LogOperationStart(logger, opts.Mode.String())()
	c.DryRun = opts.DryRun
	c.DiffOut = opts.DiffOut
	res := &Result{Mode: opts.Mode}

	c.Log.Line("STARTING MODLOADER PROCESS...")
	if c.WorkshopRoot == "" {
		c.Log.Info("Steam Workshop content root NOT found - only local mods will be used.")
	}

	c.Mods = mods.DiscoverAll(c.FS, c.ModsDir, c.WorkshopRoot, c.ToolFolder, c.Log)
	res.Mods = c.Mods
	c.listMods()

	c.Targets = DiscoverTargets(c.FS, c.GameRoot, c.WorkshopRoot, c.ContentDirs)
	c.Log.Info("Processing target file locations:")
	for _, t := range c.Targets {
		c.Log.Printf("  - %18s", t.Label)
	}

	logger.Debug().
		Str("mode", opts.Mode.String()).
		Bool("dry_run", opts.DryRun).
		Int("mods", len(c.Mods)).
		Int("targets", len(c.Targets)).
		Msg("Run started")

	switch opts.Mode {
	case ModePurge:
		c.Log.Info("PURGE_BACKUPS_ONLY --> deleting all backup files without touching game files...")
		r := c.Backups.PurgeOnly(c.Log)
		res.Restore = &r
		c.Log.Line("[REPORT] BACKUP PURGE FINISHED!")
		return c.finish(res), nil
	case ModeFactoryReset:
		c.Log.Info("FACTORY_RESET --> restoring backups and removing them...")
		r := c.Backups.FactoryReset(c.Targets, c.Log)
		res.Restore = &r
		c.Log.Line("[REPORT] FACTORY RESET FINISHED!")
		return c.finish(res), nil
	}

	merged := c.mergeRules()
	paths := merged.Paths()
	if len(paths) == 0 {
		c.Log.Info("No replacement rules found across enabled mods. Nothing to do.")
		return c.finish(res), nil
	}
	c.Resolvers = resolve.NewSet(c.FS, c.Mods)

	c.Log.Info("Processing files:")
	for _, rel := range paths {
		fr := merged.For(rel)
		for _, target := range c.Targets {
			stats := c.processFile(target, fr)
			if stats != nil {
				res.add(stats)
			}
		}
	}

	c.finish(res)
	c.summarize(res)
	return res, nil
}

func (c *Context) listMods() {
	if len(c.Mods) == 0 {
		c.Log.Info("No mods found in any known directory")
		return
	}
	c.Log.Info("Mods load priority:")
	for _, m := range c.Mods {
		c.Log.Printf("      - %3d : %s [%s]", m.Priority, m.Name(), m.Origin())
	}
}

// mergeRules loads the rule file of every mod and merges them in load
// order. A mod whose rule file cannot be read contributes nothing.
func (c *Context) mergeRules() *rules.Bundle {
	bundles := make([]*rules.Bundle, 0, len(c.Mods))
	for _, m := range c.Mods {
		loaded, err := rules.LoadDir(c.FS, m.Base, c.RuleFiles)
		if err != nil {
			c.Log.Error("Failed to load rules for mod '%s': %v", m.Name(), err)
			continue
		}
		for _, w := range loaded.Warnings {
			c.Log.Warn("Mod '%s': %s", m.Name(), w)
		}
		bundles = append(bundles, loaded.Bundle)
	}
	return rules.MergeAll(bundles...)
}

func (c *Context) finish(res *Result) *Result {
	res.Errors = c.Log.Errors()
	res.Warnings = c.Log.Warnings()
	logger := logging.GetLogger("engine")
	logger.Info().
		Int("mods", len(res.Mods)).
		Int("written", res.FilesWritten).
		Int("errors", res.Errors).
		Int("warnings", res.Warnings).
		Msg("Run finished")
	return res
}

func (r *Result) add(s *FileStats) {
	r.Files = append(r.Files, s)
	r.FilesVisited++
	r.LinesChanged += s.LineCount()
	r.FunctionsSwapped += s.Functions
	r.FilesSwapped += s.Files
	if s.Written {
		r.FilesWritten++
	}
}
