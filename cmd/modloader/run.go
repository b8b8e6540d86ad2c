package modloader

import (
	"fmt"

	"github.com/arthur-debert/modloader/pkg/engine"
	"github.com/arthur-debert/modloader/pkg/logging"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var dryRun, diff bool
	cmd := &cobra.Command{
		Use:     "run",
		Short:   MsgRunShort,
		Long:    MsgRunLong,
		Example: MsgRunExample,
		GroupID: "patch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := engine.Options{Mode: engine.ModePatch, DryRun: dryRun}
			if diff {
				opts.DiffOut = cmd.OutOrStdout()
			}
			return runEngine(cmd, g, opts)
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)
	cmd.Flags().BoolVar(&diff, "diff", false, MsgFlagDiff)
	return cmd
}

func newResetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "reset",
		Short:   MsgResetShort,
		GroupID: "patch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd, g, engine.Options{Mode: engine.ModeFactoryReset})
		},
	}
}

func newPurgeCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "purge",
		Short:   MsgPurgeShort,
		GroupID: "patch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(cmd, g, engine.Options{Mode: engine.ModePurge})
		},
	}
}

// runEngine performs one engine invocation. Per-file errors do not stop
// the run but make the command fail once it is over.
func runEngine(cmd *cobra.Command, g *globalFlags, opts engine.Options) error {
	logger := logging.GetLogger("cmd.run")
	a, err := loadApp(cmd, g)
	if err != nil {
		return err
	}
	log, closeLog, err := a.stream()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, err := engine.NewContext(a.engineConfig(log))
	if err != nil {
		return err
	}
	res, err := ctx.Run(opts)
	if err != nil {
		return err
	}

	logger.Info().
		Str("mode", opts.Mode.String()).
		Int("written", res.FilesWritten).
		Int("errors", res.Errors).
		Msg("Engine run complete")
	if res.Errors > 0 {
		return fmt.Errorf(MsgErrRunErrors, res.Errors)
	}
	return nil
}
