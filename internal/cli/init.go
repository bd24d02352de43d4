package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newInitCmd creates the init command
func newInitCmd() *cobra.Command {
	var trunk string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize git-stack in the current repository",
		Long: `Initialize git-stack in the current repository.

Picks the trunk branch (the branch stacks grow from) and records it. The
default is the remote HEAD branch, then the globally configured trunk, then
main. Re-running with --trunk moves existing stacks onto the new trunk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContextForInit(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.InitAction(ctx, actions.InitOptions{
				Trunk: trunk,
			})
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "The branch to use as the trunk")

	return cmd
}
