package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newLogCmd creates the log command
func newLogCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:     "log",
		Aliases: []string{"ls"},
		Short:   "Show the tracked branches and how they stack",
		Long: `Show the tracked branches and how they stack, trunk at the bottom.

The current branch is marked, branches whose parent has moved show a
(needs restack) annotation, and pull request numbers appear next to
branches that have one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.LogAction(ctx, actions.LogOptions{
				Short: short,
			})
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "One compact line per branch")

	return cmd
}
