package engine

import (
	"context"

	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/stack"
)

// RestackBranch brings one branch up to date with its parent. The rebase
// range normally starts at the recorded anchor, so only the branch's own
// commits replay; when the anchor is missing, or the parent no longer
// contains it, the range falls back to the merge base and BaseRecomputed is
// set so the caller can warn about the widened range.
func (e *engineImpl) RestackBranch(ctx context.Context, branchName string) (RestackBranchResult, error) {
	var result RestackBranchResult

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graph.IsTrunk(branchName) {
		return result, stackerrors.ErrTrunkOperation
	}
	node := e.graph.Node(branchName)
	if node == nil {
		return result, stackerrors.NewNotFoundError(branchName)
	}
	exists, err := e.runner.BranchExists(branchName)
	if err != nil {
		return result, err
	}
	if !exists {
		return result, stackerrors.NewStaleBranchError(branchName)
	}

	// The parent tip is captured once: the rebase targets it and the anchor
	// records it afterwards, so the two always agree even if the parent ref
	// moves while the rebase runs.
	parentTip, err := e.runner.GetRevision(node.Parent)
	if err != nil {
		return result, err
	}
	branchTip, err := e.runner.GetRevision(branchName)
	if err != nil {
		return result, err
	}

	// Already sitting on the parent tip with a current anchor.
	if node.Anchor == parentTip {
		onTip, err := e.runner.IsAncestor(parentTip, branchTip)
		if err != nil {
			return result, err
		}
		if onTip {
			result.Result = RestackUnneeded
			return result, nil
		}
	}

	// No commits of its own: advance the anchor, leave the ref alone.
	empty, err := e.runner.IsAncestor(branchTip, parentTip)
	if err != nil {
		return result, err
	}
	if empty {
		result.Result = RestackUnneeded
		if node.Anchor != parentTip {
			if err := e.graph.SetAnchor(branchName, parentTip); err != nil {
				return result, err
			}
			if err := e.save(); err != nil {
				return result, err
			}
			result.AnchorAdvanced = true
		}
		return result, nil
	}

	from, recomputed, err := e.resolveRebaseBase(node, parentTip)
	if err != nil {
		return result, err
	}
	result.RebasedBase = parentTip
	result.BaseRecomputed = recomputed

	rebase, err := e.runner.Rebase(ctx, branchName, parentTip, from)
	if err != nil {
		return result, err
	}
	if rebase == git.RebaseConflict {
		result.Result = RestackConflict
		return result, nil
	}

	// Persist before anything else happens to this branch. A crash on the
	// next branch of the walk must not lose this one's progress.
	if err := e.graph.SetAnchor(branchName, parentTip); err != nil {
		return result, err
	}
	if err := e.save(); err != nil {
		return result, err
	}
	result.Result = RestackDone
	return result, nil
}

// resolveRebaseBase picks the commit the rebase range starts from. The
// recorded anchor gives the minimal range; an anchor the parent no longer
// contains means the parent was rewritten under us, and the only safe range
// is the one computed from the live merge base.
func (e *engineImpl) resolveRebaseBase(node *stack.Node, parentTip string) (string, bool, error) {
	if node.Anchor == "" {
		base, err := e.runner.GetMergeBase(node.Parent, node.Name)
		return base, false, err
	}

	usable, err := e.runner.IsAncestor(node.Anchor, parentTip)
	if err != nil {
		// The anchor commit may not exist anymore at all.
		usable = false
	}
	if usable {
		return node.Anchor, false, nil
	}
	base, err := e.runner.GetMergeBase(node.Parent, node.Name)
	return base, true, err
}

// ContinueRebase resumes the in-progress rebase for pausedBranch. When git
// finishes, rebasedBase is recorded as the branch's restacked position; git
// itself leaves HEAD back on the branch.
func (e *engineImpl) ContinueRebase(ctx context.Context, pausedBranch, rebasedBase string) (ContinueRebaseResult, error) {
	result := ContinueRebaseResult{BranchName: pausedBranch}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.runner.IsRebaseInProgress(ctx) {
		return result, stackerrors.ErrRebaseNotInProgress
	}

	rebase, err := e.runner.RebaseContinue(ctx)
	if err != nil {
		return result, err
	}
	if rebase == git.RebaseConflict {
		result.Result = RestackConflict
		return result, nil
	}

	if e.graph.Has(pausedBranch) && rebasedBase != "" {
		if err := e.graph.SetAnchor(pausedBranch, rebasedBase); err != nil {
			return result, err
		}
		if err := e.save(); err != nil {
			return result, err
		}
	}
	result.Result = RestackDone
	return result, nil
}
