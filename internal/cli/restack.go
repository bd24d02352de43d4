package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newRestackCmd creates the restack command
func newRestackCmd() *cobra.Command {
	var (
		ancestors bool
		branch    string
		fetch     bool
		push      bool
	)

	cmd := &cobra.Command{
		Use:   "restack",
		Short: "Rebase each branch in the stack onto its parent's current tip",
		Long: `Rebase each branch in the stack onto its parent's current tip,
parents first, so the whole chain ends up contiguous again.

By default restacks the current branch and everything stacked on it.
If a rebase hits conflicts the run pauses; resolve them, then run
git-stack continue (or git-stack abort to roll back).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.RestackAction(ctx, actions.RestackOptions{
				BranchName: branch,
				Fetch:      fetch,
				Ancestors:  ancestors,
				Push:       push,
			})
		},
	}

	cmd.Flags().BoolVar(&ancestors, "ancestors", false, "Also restack the branches below, from the bottom of the stack up")
	cmd.Flags().StringVar(&branch, "branch", "", "The branch to restack (default: the current branch)")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "Fetch the remote before restacking")
	cmd.Flags().BoolVar(&push, "push", false, "Push each branch after it is restacked (force, with lease)")

	return cmd
}
