package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions/sync"
	"gitstack.dev/gitstack/internal/runtime"
)

// newSyncCmd creates the sync command
func newSyncCmd() *cobra.Command {
	var (
		force   bool
		push    bool
		restack bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Bring the local stacks in line with the remote",
		Long: `Bring the local stacks in line with the remote.

Fetches with pruning, fast-forwards the trunk, and offers to delete
branches whose work has landed (merged into the trunk, or their PR merged
or closed). Children of a deleted branch move onto its parent and their
PRs are retargeted. With --restack everything left is restacked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return sync.Action(ctx, sync.Options{
				Restack: restack,
				Push:    push,
				Force:   force,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete finished branches without confirmation and reset a diverged trunk to the remote")
	cmd.Flags().BoolVar(&push, "push", false, "Push branches as the restack updates them (needs --restack)")
	cmd.Flags().BoolVar(&restack, "restack", false, "Restack all tracked branches after syncing")

	return cmd
}
