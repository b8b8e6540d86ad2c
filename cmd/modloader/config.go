package modloader

import (
	"fmt"

	"github.com/arthur-debert/modloader/pkg/config"
	"github.com/arthur-debert/modloader/pkg/filesystem"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			data, err := toml.Marshal(a.cfg)
			if err != nil {
				return err
			}
			if a.cfg.Source != "" {
				fmt.Fprintf(a.out, "# loaded from %s\n", a.cfg.Source)
			}
			_, err = a.out.Write(data)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the app directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, g)
			if err != nil {
				return err
			}
			path := a.paths.ConfigPath()
			if filesystem.Exists(a.fs, path) {
				return fmt.Errorf(MsgErrConfigExist, path)
			}
			if err := filesystem.WriteText(a.fs, path, config.DefaultContent()); err != nil {
				return err
			}
			fmt.Fprintf(a.out, MsgConfigWritten, path)
			return nil
		},
	})
	return cmd
}
