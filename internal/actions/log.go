package actions

import (
	"strings"

	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
)

// LogOptions contains options for the log command
type LogOptions struct {
	// Short renders one compact line per branch.
	Short bool
}

// LogAction displays the tracked branch tree, trunk at the bottom, with the
// current branch marked and pull request numbers when GitHub is reachable.
func LogAction(ctx *runtime.Context, opts LogOptions) error {
	current, err := ctx.Engine.CurrentBranch()
	if err != nil {
		// Detached HEAD still gets a tree, just with nothing marked current.
		current = ""
	}
	trunk := ctx.Engine.Trunk()

	renderer := output.NewStackTreeRenderer(
		current,
		trunk,
		ctx.Engine.GetChildren,
		func(branchName string) string {
			parent, err := ctx.Engine.GetParent(branchName)
			if err != nil {
				return ""
			}
			return parent
		},
		ctx.Engine.IsTrunk,
		func(branchName string) bool {
			if ctx.Engine.IsTrunk(branchName) {
				return true
			}
			restacked, err := ctx.Engine.IsBranchRestacked(branchName)
			if err != nil {
				// A branch we cannot judge is not flagged.
				return true
			}
			return restacked
		},
	)
	annotatePullRequests(ctx, renderer)

	lines := renderer.RenderStack(trunk, output.TreeRenderOptions{
		Short: opts.Short,
	})
	ctx.Splog.Page(strings.Join(lines, "\n"))
	ctx.Splog.Newline()
	return nil
}

// annotatePullRequests decorates tracked branches with their PR number and
// state. Best effort; no token or no network leaves the tree bare.
func annotatePullRequests(ctx *runtime.Context, renderer *output.StackTreeRenderer) {
	if ctx.GitHub == nil {
		return
	}
	for _, branchName := range ctx.Engine.TrackedBranchNames() {
		pr, err := ctx.GitHub.GetPullRequestByBranch(ctx.Context, branchName)
		if err != nil {
			ctx.Splog.Debug("Could not look up a pull request for %s: %v", branchName, err)
			continue
		}
		if pr == nil {
			continue
		}
		number := pr.Number
		state := pr.State
		if pr.Merged {
			state = "merged"
		}
		renderer.SetAnnotation(branchName, output.BranchAnnotation{
			PRNumber: &number,
			PRState:  state,
			IsDraft:  pr.Draft,
		})
	}
}
