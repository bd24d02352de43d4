package actions

import (
	"fmt"
	"strings"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/utils"
)

// DeleteOptions contains options for the delete command
type DeleteOptions struct {
	BranchName string
	// Force skips the confirmation for branches with unmerged work.
	Force bool
	// Keep untracks the branch but leaves the git branch in place.
	Keep bool
}

// DeleteAction removes a branch from its stack, rewiring its children onto
// its former parent. Branches whose work is not in the trunk yet require
// confirmation, since deleting the git branch discards those commits.
func DeleteAction(ctx *runtime.Context, opts DeleteOptions) error {
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}
	if err := EnsureCleanTree(ctx, "delete a branch"); err != nil {
		return err
	}

	name, err := requireTrackedBranch(ctx, opts.BranchName)
	if err != nil {
		return err
	}

	if !opts.Keep {
		safe, err := safeToDelete(ctx, name)
		if err != nil {
			return err
		}
		if !safe {
			prompt := fmt.Sprintf("%s has commits that are not in %s. Delete it anyway?", name, ctx.Engine.Trunk())
			confirmed, err := confirmOr(opts.Force, prompt)
			if err != nil {
				return err
			}
			if !confirmed {
				ctx.Splog.Info("Keeping %s.", output.ColorBranchName(name, false))
				return nil
			}
		}
	}

	rewired, err := ctx.Engine.DeleteBranch(ctx.Context, name, !opts.Keep)
	if err != nil {
		return err
	}

	if opts.Keep {
		ctx.Splog.Info("Stopped tracking %s; the git branch is untouched.", output.ColorBranchName(name, false))
	} else {
		ctx.Splog.Info("Deleted %s.", output.ColorBranchName(name, false))
	}
	if len(rewired) > 0 {
		ctx.Splog.Info("Moved %s onto %s.",
			strings.Join(rewired, ", "),
			output.ColorBranchName(parentAfterDelete(ctx, rewired[0]), false))
		ctx.Splog.Tip("Run %s to rebase the moved %s.",
			output.ColorCyan("git-stack restack"), pluralize("branch", len(rewired)))
	}
	return nil
}

// safeToDelete reports whether deleting the git branch loses no work: the
// branch is merged into the trunk, or its tree matches its parent's.
func safeToDelete(ctx *runtime.Context, branchName string) (bool, error) {
	merged, err := ctx.Engine.IsMergedIntoTrunk(ctx.Context, branchName)
	if err != nil {
		return false, err
	}
	if merged {
		return true, nil
	}

	parent, err := ctx.Engine.GetParent(branchName)
	if err != nil {
		return false, err
	}
	parentRev, err := git.GetRevision(parent)
	if err != nil {
		return false, err
	}
	return git.IsDiffEmpty(branchName, parentRev)
}

func parentAfterDelete(ctx *runtime.Context, rewiredChild string) string {
	parent, err := ctx.Engine.GetParent(rewiredChild)
	if err != nil {
		return ctx.Engine.Trunk()
	}
	return parent
}
