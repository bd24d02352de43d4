package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newCheckoutCmd creates the checkout command
func newCheckoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "checkout [branch]",
		Aliases: []string{"co"},
		Short:   "Switch to a branch, creating it if the name is new",
		Long: `Switch to a branch, creating and tracking it if the name is new.

With no argument, opens an interactive picker over the tracked branches.`,
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

			return actions.CheckoutAction(ctx, actions.CheckoutOptions{
				BranchName: branchName,
			})
		},
	}

	return cmd
}
