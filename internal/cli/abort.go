package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newAbortCmd creates the abort command
func newAbortCmd() *cobra.Command {
	var (
		undo bool
	)

	cmd := &cobra.Command{
		Use:   "abort",
		Short: "Abort the restack that paused on a rebase conflict",
		Long: `Abort the restack that paused on a rebase conflict.

The in-progress rebase is aborted and the paused run is forgotten.
Branches that were already restacked before the conflict keep their new
position; backup refs from the run point at the old tips.

With --undo, those backup refs are replayed: every branch the run touched
is moved back to where it was before the restack started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.AbortAction(ctx, actions.AbortOptions{
				Undo: undo,
			})
		},
	}

	cmd.Flags().BoolVar(&undo, "undo", false, "move every branch back to its pre-restack position")

	return cmd
}
