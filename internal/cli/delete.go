package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newDeleteCmd creates the delete command
func newDeleteCmd() *cobra.Command {
	var (
		force bool
		keep  bool
	)

	cmd := &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a branch from its stack",
		Long: `Delete a branch from its stack, moving its children onto its parent.

Deleting a branch whose commits are not in the trunk discards them, so
that case asks for confirmation unless --force is given. With --keep the
branch is only untracked; the git branch stays.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.DeleteAction(ctx, actions.DeleteOptions{
				BranchName: args[0],
				Force:      force,
				Keep:       keep,
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Delete without confirmation, even with unmerged commits")
	cmd.Flags().BoolVar(&keep, "keep", false, "Stop tracking the branch but keep the git branch")

	return cmd
}
