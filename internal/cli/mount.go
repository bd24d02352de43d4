package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newMountCmd creates the mount command
func newMountCmd() *cobra.Command {
	var branch string

	cmd := &cobra.Command{
		Use:   "mount <new-parent>",
		Short: "Move a branch onto a different parent",
		Long: `Move a branch onto a different parent in the stack.

Only the recorded relationship changes; the commits stay where they are
until the next restack rebases the branch onto its new parent. Mounting
an untracked branch starts tracking it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.MountAction(ctx, actions.MountOptions{
				NewParent:  args[0],
				BranchName: branch,
			})
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "The branch to move (default: the current branch)")

	return cmd
}
