package actions

import (
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/utils"
)

// CreateOptions contains options for the create command
type CreateOptions struct {
	BranchName string
}

// CreateAction creates a new branch stacked on the current branch and
// switches to it.
func CreateAction(ctx *runtime.Context, opts CreateOptions) error {
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}
	if err := EnsureCleanTree(ctx, "create a branch"); err != nil {
		return err
	}

	parent, err := ctx.Engine.CurrentBranch()
	if err != nil {
		return err
	}
	if err := ctx.Engine.CreateBranch(ctx.Context, opts.BranchName); err != nil {
		return err
	}

	ctx.Splog.Info("Created %s on %s.",
		output.ColorBranchName(opts.BranchName, true),
		output.ColorBranchName(parent, false))
	return nil
}
