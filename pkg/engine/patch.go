package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/modloader/pkg/backup"
	"github.com/arthur-debert/modloader/pkg/errors"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/arthur-debert/modloader/pkg/matcher"
	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/arthur-debert/modloader/pkg/rules"
	"github.com/pmezard/go-difflib/difflib"
)

// FileKey is the statistics key of lines changed outside any function.
const FileKey = "<file>"

// FileStats records what happened to one (target, path) pair.
type FileStats struct {
	Label string
	Path  string
	// Lines maps a function name, or FileKey, to the number of line
	// replacements applied to it.
	Lines     map[string]int
	Functions int
	Files     int
	// Changed is set when the patched content differs from the live file.
	Changed bool
	// Written is set when the patched content was written to disk.
	Written bool
}

// Key is the "<label>/<path>" name the summary prints.
func (s *FileStats) Key() string {
	return s.Label + "/" + s.Path
}

// LineCount is the total number of line replacements in the file.
func (s *FileStats) LineCount() int {
	n := 0
	for _, v := range s.Lines {
		n += v
	}
	return n
}

// fileRun carries the state of one file through the pipeline.
type fileRun struct {
	c      *Context
	rules  rules.FileRules
	stats  *FileStats
	events []string
}

func (f *fileRun) event(format string, args ...interface{}) {
	f.events = append(f.events, fmt.Sprintf(format, args...))
}

// processFile patches one path under one target. It returns nil when the
// file exists neither live nor as a backup.
func (c *Context) processFile(target backup.Target, fr rules.FileRules) *FileStats {
	logger := logging.GetLogger("engine.file")
	rel := fr.Path
	livePath := filepath.Join(target.Root, filepath.FromSlash(rel))
	liveExists := filesystem.Exists(c.FS, livePath)
	if !liveExists && !c.Backups.Exists(target.Label, rel) {
		return nil
	}

	c.Log.Printf("==> %s (%s)", rel, target.Label)
	stats := &FileStats{Label: target.Label, Path: rel, Lines: map[string]int{}}

	if !c.DryRun {
		outcome, err := c.Backups.Ensure(target.Label, rel, livePath)
		if err != nil {
			c.Log.Printf("\t     %s Could not create backup! %v", report.TokenError, err)
			return stats
		}
		switch outcome {
		case backup.Created:
			c.Log.Printf("\t     %s", report.TokenBackupCreated)
		case backup.LiveMissing:
			c.Log.Printf("\t     %s Target missing, will use existing backup", report.TokenInfo)
		}
	}

	sourcePath := c.Backups.SourcePath(target.Label, rel, livePath)
	source, err := filesystem.ReadText(c.FS, sourcePath)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrFileEncoding) {
			c.Log.Printf("\t|     %s Encoding issue reading source (expected UTF-8): %s", report.TokenError, sourcePath)
		} else {
			c.Log.Printf("\t|     %s Could not read source %s: %v", report.TokenError, sourcePath, err)
		}
		return stats
	}

	current := ""
	if liveExists {
		current, err = filesystem.ReadText(c.FS, livePath)
		if err != nil {
			c.Log.Printf("\t|     %s Encoding issue reading target game file (expected UTF-8): %s", report.TokenError, livePath)
			return stats
		}
	}

	run := &fileRun{c: c, rules: fr, stats: stats}
	content := run.apply(source)

	if content == current {
		if len(run.events) > 0 {
			c.Log.Printf("\t     %-19s File is already up-to-date", report.TokenNoChange)
		} else {
			c.Log.Printf("\t     %-19s No write needed", report.TokenNoChange)
		}
		return stats
	}
	stats.Changed = true

	if c.DiffOut != nil {
		c.writeDiff(stats, current, content)
	}

	if c.DryRun {
		c.Log.Printf("\t     %-19s Would update file", report.TokenDryRun)
	} else {
		if err := filesystem.WriteText(c.FS, livePath, content); err != nil {
			c.Log.Printf("\t     %s Writing updated file %s: %v", report.TokenError, livePath, err)
			return stats
		}
		stats.Written = true
		c.Log.Printf("\t     %s", report.TokenUpdateFile)
	}
	for _, e := range run.events {
		c.Log.Printf("\t\t%s", e)
	}

	logger.Debug().
		Str("label", target.Label).
		Str("path", rel).
		Int("lines", stats.LineCount()).
		Int("functions", stats.Functions).
		Bool("written", stats.Written).
		Msg("File processed")
	return stats
}

// apply runs the rule stages in order: function scoped rules, file-level
// line rules, additions, whole-file replacement.
func (f *fileRun) apply(source string) string {
	content := source
	if names := f.rules.FunctionNames(); len(names) > 0 {
		res := f.c.Scanner.Scan(content, names, f.emitFunction)
		if res.Unterminated != "" {
			f.c.Log.Printf("\t     %s Function '%s' has no closing brace, left unchanged", report.TokenWarn, res.Unterminated)
		}
		content = res.Text
	}
	content = f.applyFileLines(content)
	content = f.applyAdditions(content)
	return f.applyReplacement(content)
}

// emitFunction is the scanner callback. A whole-function replacement takes
// precedence over line rules for the same function.
func (f *fileRun) emitFunction(name, text string) string {
	if spec, ok := f.rules.Functions[name]; ok {
		f.stats.Functions++
		f.event("\t > %s  %s\t\t`%s`", report.TokenReplaceFunction, name, report.Truncate(spec, 50))
		return f.c.Resolvers.Functions.Text(spec)
	}
	for _, pair := range f.rules.Lines[name] {
		old := f.c.Resolvers.ResolveOld(pair.Old).Text
		repl := f.c.Resolvers.Lines.Text(pair.New)
		var n int
		text, n = matcher.Compile(old).ReplaceFirst(text, repl)
		if n > 0 {
			f.stats.Lines[name] += n
			f.event("\t > %s      %s\t\t`%s`", report.TokenReplaceLine, name, report.Truncate(report.Collapse(pair.New), 50))
		}
	}
	return text
}

func (f *fileRun) applyFileLines(content string) string {
	for _, pair := range f.rules.FileLines {
		old := f.c.Resolvers.ResolveOld(pair.Old).Text
		repl := f.c.Resolvers.Lines.Text(pair.New)
		var n int
		content, n = matcher.Compile(old).ReplaceAll(content, repl)
		if n > 0 {
			f.stats.Lines[FileKey] += n
			f.event("\t > %s %s -> `%s`", report.TokenReplaceFileLine, f.rules.Path, report.Truncate(pair.New, 60))
		}
	}
	return content
}

func (f *fileRun) applyAdditions(content string) string {
	rel := f.rules.Path
	for _, add := range f.rules.Additions {
		text := f.c.Resolvers.Lines.Text(add.Spec)
		if text == "" {
			continue
		}
		if !add.KnownPosition() {
			f.c.Log.Printf("\t     %s Unknown addition position '%s' for %s, appending", report.TokenWarn, add.Position, rel)
		}
		quoted := report.Truncate(report.Collapse(add.Spec), 60)
		where := "end"
		if add.AtStart() {
			where = "start"
		}
		if strings.Contains(content, text) {
			f.event("%s %s %s -> `%s` already present", report.TokenAddSkip, rel, where, quoted)
			continue
		}
		if add.AtStart() {
			content = joinText(text, content)
			f.event("%s %s -> `%s`", report.TokenAddStart, rel, quoted)
		} else {
			content = joinText(content, text)
			f.event("%s %s -> `%s`", report.TokenAddEnd, rel, quoted)
		}
	}
	return content
}

func (f *fileRun) applyReplacement(content string) string {
	if !f.rules.HasReplacement {
		return content
	}
	rel := f.rules.Path
	replacement := f.c.Resolvers.Files.Text(f.rules.Replacement)
	if replacement == content {
		f.event("%s %s -> already up-to-date", report.TokenFileReplace, rel)
		return content
	}
	f.stats.Files++
	f.stats.Lines[FileKey]++
	f.event("%s %s -> `%s`", report.TokenFileReplace, rel, report.Truncate(f.rules.Replacement, 60))
	return replacement
}

// joinText concatenates a and b, inserting a newline when neither side
// provides one at the joint.
func joinText(a, b string) string {
	if a == "" || b == "" || strings.HasSuffix(a, "\n") || strings.HasPrefix(b, "\n") {
		return a + b
	}
	return a + "\n" + b
}

func (c *Context) writeDiff(stats *FileStats, current, content string) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(current),
		B:        difflib.SplitLines(content),
		FromFile: stats.Key() + " (live)",
		ToFile:   stats.Key() + " (patched)",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		logger := logging.GetLogger("engine.diff")
		logger.Warn().Err(err).Str("file", stats.Key()).Msg("Could not build diff")
		return
	}
	_, _ = fmt.Fprint(c.DiffOut, text)
}
