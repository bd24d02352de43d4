package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newContinueCmd creates the continue command
func newContinueCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Resume the restack that paused on a rebase conflict",
		Long: `Resume the restack that paused on a rebase conflict.

Run it after resolving and staging the conflicted files. The rebase
finishes and the remaining branches are restacked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.ContinueAction(ctx, actions.ContinueOptions{
				All: all,
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Stage all changes before continuing")

	return cmd
}
