package modloader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arthur-debert/modloader/pkg/config"
	"github.com/arthur-debert/modloader/pkg/engine"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/arthur-debert/modloader/pkg/mods"
	"github.com/arthur-debert/modloader/pkg/paths"
	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/arthur-debert/modloader/pkg/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app is what a command needs after flags and config are resolved.
type app struct {
	paths *paths.Paths
	cfg   *config.Config
	fs    afero.Fs
	out   io.Writer
	// format is the resolved output format of out.
	format ui.Format
}

// overrides maps the flags that were set to config keys.
func (g *globalFlags) overrides(cmd *cobra.Command) map[string]interface{} {
	o := map[string]interface{}{}
	set := func(flag, key string, value interface{}) {
		if cmd.Flags().Changed(flag) {
			o[key] = value
		}
	}
	set("game-root", "game_root", g.gameRoot)
	set("mods-dir", "mods_dir", g.modsDir)
	set("backup-dir", "backup_dir", g.backupDir)
	set("workshop-root", "workshop.content_root", g.workshopRoot)
	set("no-workshop", "workshop.disabled", g.noWorkshop)
	set("format", "output.format", g.format)
	return o
}

func loadApp(cmd *cobra.Command, g *globalFlags) (*app, error) {
	p, err := paths.New(g.appDir)
	if err != nil {
		return nil, err
	}
	if p.UsedFallback() && !cmd.Flags().Changed("game-root") {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackNotice, p.AppDir())
	}
	cfg, err := config.Load(config.Options{
		AppDir:    p.AppDir(),
		File:      g.configFile,
		Overrides: g.overrides(cmd),
	})
	if err != nil {
		return nil, err
	}

	format := ui.FormatPlain
	if !g.noColor {
		parsed, err := ui.ParseFormat(cfg.Output.Format)
		if err != nil {
			return nil, err
		}
		format = ui.Resolve(parsed, cmd.OutOrStdout())
	}
	if format == ui.FormatPlain {
		pterm.DisableStyling()
	} else {
		pterm.EnableStyling()
	}

	return &app{
		paths:  p,
		cfg:    cfg,
		fs:     filesystem.NewOS(),
		out:    cmd.OutOrStdout(),
		format: format,
	}, nil
}

// stream creates the run log: the command output plus the configured log
// file. The returned close function releases the log file.
func (a *app) stream() (*report.Stream, func(), error) {
	sinks := []report.Sink{ui.NewSink(a.out, a.format)}
	closeFn := func() {}
	if a.cfg.Output.LogFile != "" {
		if err := a.fs.MkdirAll(filepath.Dir(a.cfg.Output.LogFile), 0755); err != nil {
			return nil, nil, err
		}
		f, err := a.fs.OpenFile(a.cfg.Output.LogFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, report.WriterSink{Out: f})
		closeFn = func() { _ = f.Close() }
	}
	return report.NewStream(sinks...), closeFn, nil
}

func (a *app) engineConfig(log *report.Stream) engine.Config {
	return engine.Config{
		FS:           a.fs,
		GameRoot:     a.cfg.GameRoot,
		ModsDir:      a.cfg.ModsDir,
		BackupDir:    a.cfg.BackupDir,
		WorkshopRoot: a.cfg.Workshop.ContentRoot,
		NoWorkshop:   a.cfg.Workshop.Disabled,
		AppID:        a.cfg.Workshop.AppID,
		ToolFolder:   a.cfg.Workshop.ToolFolder,
		ContentDirs:  a.cfg.Workshop.ContentDirs,
		RuleFiles:    a.cfg.Rules.Files,
		Log:          log,
	}
}

// workshopRoot is the workshop content root mods are discovered in, or "".
func (a *app) workshopRoot() string {
	if a.cfg.Workshop.Disabled {
		return ""
	}
	if a.cfg.Workshop.ContentRoot != "" {
		return a.cfg.Workshop.ContentRoot
	}
	return engine.FindWorkshopContentRoot(a.cfg.GameRoot, a.cfg.Workshop.AppID)
}

// discover lists mods for management commands, disabled ones included.
func (a *app) discover(localOnly bool) []mods.Mod {
	d := &mods.Discoverer{FS: a.fs, ToolFolder: a.cfg.Workshop.ToolFolder, IncludeDisabled: true}
	if localOnly {
		return d.In(a.cfg.ModsDir, mods.OriginLocal)
	}
	return d.All(a.cfg.ModsDir, a.workshopRoot())
}
