package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [targets...] [KEY=VALUE...]",
		Short: "Build targets, or every program and library when none are given",
		Long: `Build targets, or every program and library when none are given.

A target is "install", "uninstall", a task name or an output path.
KEY=VALUE arguments override recipe environment keys for this run.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.runOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Run(cmd.Context(), args, opts)
		},
	}
	addRunFlags(cmd)
	cmd.Flags().BoolP("dry-run", "n", false, "Print what would run without executing it")
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [targets...] [KEY=VALUE...]",
		Short: "Build, then rebuild whenever the recipe or a source changes",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.runOptions(cmd)
			if err != nil {
				return err
			}
			return c.app.Watch(cmd.Context(), args, opts)
		},
	}
	addRunFlags(cmd)
	return cmd
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("jobs", "j", 0, "Number of tasks to run in parallel (default number of CPUs)")
	cmd.Flags().BoolP("force", "B", false, "Rebuild even when outputs are up to date")
}

// runOptions collects the flags shared by build and watch. Missing flags keep their zero value.
func (c *CLI) runOptions(cmd *cobra.Command) (app.RunOptions, error) {
	opts := app.RunOptions{ConfigPath: c.configPath}

	var err error
	if opts.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return opts, err
	}
	if opts.Force, err = cmd.Flags().GetBool("force"); err != nil {
		return opts, err
	}
	if cmd.Flags().Lookup("dry-run") != nil {
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	}
	return opts, nil
}
