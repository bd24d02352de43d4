package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/utils"
)

// MountOptions contains options for the mount command
type MountOptions struct {
	// NewParent is the branch to stack on; the trunk or any tracked branch.
	NewParent string
	// BranchName is the branch being moved; empty means the current branch.
	BranchName string
}

// MountAction moves a branch onto a new parent in the stack metadata. The
// commits stay where they are until the next restack, so a mistaken mount is
// undone by mounting back.
func MountAction(ctx *runtime.Context, opts MountOptions) error {
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}
	if err := EnsureCleanTree(ctx, "mount"); err != nil {
		return err
	}

	name := opts.BranchName
	if name == "" {
		current, err := ctx.Engine.CurrentBranch()
		if err != nil {
			return err
		}
		name = current
	}
	if ctx.Engine.IsTrunk(name) {
		return fmt.Errorf("%s is the trunk; it does not sit on anything", name)
	}
	if name == opts.NewParent {
		return fmt.Errorf("cannot mount %s on itself", name)
	}

	tracked := ctx.Engine.IsBranchTracked(name)
	if err := ctx.Engine.MountBranch(ctx.Context, name, opts.NewParent); err != nil {
		return err
	}

	if tracked {
		ctx.Splog.Info("Mounted %s on %s.",
			output.ColorBranchName(name, false),
			output.ColorBranchName(opts.NewParent, false))
	} else {
		ctx.Splog.Info("Now tracking %s on %s.",
			output.ColorBranchName(name, false),
			output.ColorBranchName(opts.NewParent, false))
	}
	ctx.Splog.Tip("Run %s to rebase it onto the new parent.", output.ColorCyan("git-stack restack"))
	return nil
}
