package modloader

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/modloader/pkg/backup"
	"github.com/arthur-debert/modloader/pkg/engine"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatusCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			out := a.out
			cfg := a.cfg

			fmt.Fprintf(out, "Game root:     %s%s\n", cfg.GameRoot, missing(a, cfg.GameRoot))
			fmt.Fprintf(out, "Mods folder:   %s%s\n", cfg.ModsDir, missing(a, cfg.ModsDir))
			ws := a.workshopRoot()
			targets := engine.DiscoverTargets(a.fs, cfg.GameRoot, ws, cfg.Workshop.ContentDirs)
			if ws == "" {
				fmt.Fprintln(out, "Workshop:      not found")
			} else {
				fmt.Fprintf(out, "Workshop:      %s%s (%d item(s) with content)\n", ws, missing(a, ws), len(targets)-1)
			}

			all := a.discover(false)
			enabled := len(enabledOnly(all))
			fmt.Fprintf(out, "Mods:          %d enabled, %d disabled\n", enabled, len(all)-enabled)

			store := backup.NewStore(a.fs, cfg.BackupDir)
			st, err := store.Stat()
			if err != nil {
				return err
			}
			if !st.Present {
				fmt.Fprintf(out, "Backups:       none (%s)\n", cfg.BackupDir)
				return nil
			}
			fmt.Fprintf(out, "Backups:       %s file(s), %s in %s\n",
				humanize.Comma(int64(st.Files)), humanize.Bytes(uint64(st.Bytes)), cfg.BackupDir)
			fmt.Fprintf(out, "Backed up:     %s\n", strings.Join(st.Labels, ", "))

			drift, err := store.Drift(targets)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Live files:    %d patched, %d unchanged, %d missing\n",
				drift.Patched, drift.Unchanged, drift.LiveMissing)
			if drift.Unmapped > 0 {
				fmt.Fprintf(out, "Orphaned:      %d backup(s) match no current target\n", drift.Unmapped)
			}
			return nil
		},
	}
}

func missing(a *app, path string) string {
	if filesystem.DirExists(a.fs, path) {
		return ""
	}
	return " (missing)"
}
