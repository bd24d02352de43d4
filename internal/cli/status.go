package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newStatusCmd creates the status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show each tracked branch against its remote counterpart",
		Long: `Show each tracked branch against its remote counterpart.

Fetches first, then prints the stack tree with each branch's short SHA and
whether it is in sync with, ahead of, behind, or diverged from the remote,
plus merged and needs-restack markers.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.StatusAction(ctx)
		},
	}

	return cmd
}
