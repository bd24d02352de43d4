package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newDiffCmd creates the diff command
func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [branch]",
		Short: "Show what a branch changes over its parent",
		Long: `Show what a branch changes over its parent in the stack.

Equivalent to git diff <parent>...<branch>: only the branch's own commits,
not changes the parent picked up since. Output goes through git's pager.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			branchName := ""
			if len(args) > 0 {
				branchName = args[0]
			}

			return actions.DiffAction(ctx, actions.DiffOptions{
				BranchName: branchName,
			})
		},
	}

	return cmd
}
