package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newCreateCmd creates the create command
func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new branch stacked on the current branch",
		Long: `Create a new branch stacked on the current branch and switch to it.

The new branch starts at the current branch's tip and records it as its
parent. Creating from the trunk starts a new stack.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.CreateAction(ctx, actions.CreateOptions{
				BranchName: args[0],
			})
		},
	}

	return cmd
}
