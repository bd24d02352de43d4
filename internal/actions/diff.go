package actions

import (
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/runtime"
)

// DiffOptions contains options for the diff command
type DiffOptions struct {
	// BranchName is the branch to diff; empty means the current branch.
	BranchName string
}

// DiffAction shows what a branch adds over its recorded parent, through
// git's own pager so colors and paging behave like plain git diff.
func DiffAction(ctx *runtime.Context, opts DiffOptions) error {
	name, err := requireTrackedBranch(ctx, opts.BranchName)
	if err != nil {
		return err
	}
	parent, err := ctx.Engine.GetParent(name)
	if err != nil {
		return err
	}
	return git.ShowDiff(parent, name)
}
