// Package modloader implements the modloader command line.
package modloader

import (
	"embed"
	"fmt"

	"github.com/arthur-debert/modloader/internal/version"
	"github.com/arthur-debert/modloader/pkg/cobrax/topics"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/arthur-debert/modloader/pkg/paths"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicFiles embed.FS

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbosity    int
	configFile   string
	appDir       string
	gameRoot     string
	modsDir      string
	backupDir    string
	workshopRoot string
	noWorkshop   bool
	noColor      bool
	format       string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "modloader",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			p, err := paths.New(g.appDir)
			if err != nil {
				return err
			}
			logging.SetupLoggerWithFile(g.verbosity, p.LogFilePath())
			logger := logging.GetLogger("cmd")
			logger.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&g.configFile, "config", "", MsgFlagConfig)
	flags.StringVar(&g.appDir, "app-dir", "", MsgFlagAppDir)
	flags.StringVar(&g.gameRoot, "game-root", "", MsgFlagGameRoot)
	flags.StringVar(&g.modsDir, "mods-dir", "", MsgFlagModsDir)
	flags.StringVar(&g.backupDir, "backup-dir", "", MsgFlagBackupDir)
	flags.StringVar(&g.workshopRoot, "workshop-root", "", MsgFlagWorkshopRoot)
	flags.BoolVar(&g.noWorkshop, "no-workshop", false, MsgFlagNoWorkshop)
	flags.BoolVar(&g.noColor, "no-color", false, MsgFlagNoColor)
	flags.StringVar(&g.format, "format", "", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "patch", Title: "PATCHING:"})
	rootCmd.AddGroup(&cobra.Group{ID: "mods", Title: "MODS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(g))
	rootCmd.AddCommand(newResetCmd(g))
	rootCmd.AddCommand(newPurgeCmd(g))
	rootCmd.AddCommand(newListCmd(g))
	rootCmd.AddCommand(newNewCmd(g))
	rootCmd.AddCommand(newEnableCmd(g, true))
	rootCmd.AddCommand(newEnableCmd(g, false))
	rootCmd.AddCommand(newNormalizeCmd(g))
	rootCmd.AddCommand(newStatusCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if tm, err := topics.Load(topicFiles, "topics", topics.Options{Renderer: topics.NewGlamourRenderer()}); err == nil {
		tm.Install(rootCmd)
	}

	return rootCmd
}
