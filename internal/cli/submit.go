package cli

import (
	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/runtime"
)

// newSubmitCmd creates the submit command
func newSubmitCmd() *cobra.Command {
	var (
		body  string
		draft bool
		title string
		web   bool
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Push the current branch and open a pull request against its parent",
		Long: `Push the current branch and open a pull request against its parent.

The PR's base is the parent branch, so the review shows only this branch's
commits. If the branch already has an open PR it is updated instead:
pushed, retargeted if the parent changed, and title/body refreshed when
the flags are given. To submit a whole stack, run submit on each branch
from the bottom up.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := runtime.GetContext(cmd.Context())
			if err != nil {
				return err
			}
			defer ctx.Splog.Close()

			return actions.SubmitAction(ctx, actions.SubmitOptions{
				Draft: draft,
				Title: title,
				Body:  body,
				Web:   web,
			})
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "The pull request body")
	cmd.Flags().BoolVarP(&draft, "draft", "d", false, "Open the pull request as a draft")
	cmd.Flags().StringVar(&title, "title", "", "The pull request title")
	cmd.Flags().BoolVar(&web, "web", false, "Open the pull request in the browser afterwards")

	return cmd
}
