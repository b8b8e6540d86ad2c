package modloader

import (
	"fmt"
	"strconv"

	"github.com/arthur-debert/modloader/pkg/mods"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newListCmd(g *globalFlags) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:     "list",
		Short:   MsgListShort,
		GroupID: "mods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			list := a.discover(false)
			if !all {
				list = enabledOnly(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, MsgNoMods)
				return nil
			}

			data := pterm.TableData{{"Priority", "Name", "Folder", "Origin", "Enabled"}}
			for _, m := range list {
				data = append(data, []string{
					strconv.Itoa(m.Priority), m.Name(), m.DirName, m.Origin(), strconv.FormatBool(m.Enabled),
				})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, table)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, MsgFlagAll)
	return cmd
}

func enabledOnly(list []mods.Mod) []mods.Mod {
	out := list[:0:0]
	for _, m := range list {
		if m.Enabled {
			out = append(out, m)
		}
	}
	return out
}

func newNewCmd(g *globalFlags) *cobra.Command {
	var opts mods.NewModOptions
	cmd := &cobra.Command{
		Use:     "new <name>",
		Short:   MsgNewShort,
		Example: MsgNewExample,
		GroupID: "mods",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			opts.Name = args[0]
			mod, err := mods.Create(a.fs, a.cfg.ModsDir, opts, a.discover(true))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, MsgModCreated, mod.Name(), mod.Base)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.Author, "author", "", "Mod author")
	f.StringVar(&opts.ModVersion, "mod-version", "", "Mod version")
	f.StringVar(&opts.GameVersion, "game-version", "", "Game version the mod targets")
	f.StringVar(&opts.Link, "link", "", "Mod homepage")
	f.StringVar(&opts.Description, "description", "", "Short description")
	f.StringArrayVar(&opts.Changes, "change", nil, "Changelog entry (repeatable)")
	return cmd
}

func newEnableCmd(g *globalFlags, enable bool) *cobra.Command {
	use, short, done, state := "disable <mod>", MsgDisableShort, MsgModDisabled, "disabled"
	if enable {
		use, short, done, state = "enable <mod>", MsgEnableShort, MsgModEnabled, "enabled"
	}
	return &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: "mods",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			a, err := loadApp(cmd, g)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			var names []string
			for _, m := range a.discover(false) {
				names = append(names, m.DirName)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			mod, err := mods.Find(a.discover(false), args[0])
			if err != nil {
				return err
			}
			if mod.Enabled == enable {
				fmt.Fprintf(a.out, MsgModUnchanged, mod.Name(), state)
				return nil
			}
			if _, err := mods.SetEnabled(a.fs, mod, enable); err != nil {
				return err
			}
			fmt.Fprintf(a.out, done, mod.Name())
			return nil
		},
	}
}

func newNormalizeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "normalize",
		Short:   MsgNormalizeShort,
		GroupID: "mods",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			updated, err := mods.NormalizePriorities(a.fs, a.discover(true))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, MsgNormalized, len(updated))
			return nil
		},
	}
}
