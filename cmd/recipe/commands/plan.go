package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/recipe/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan [targets...] [KEY=VALUE...]",
		Short: "Show target descriptors and the tasks a build would run",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.Plan(cmd.OutOrStdout(), args, app.RunOptions{ConfigPath: c.configPath})
		},
	}
}
