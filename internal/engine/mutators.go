package engine

import (
	"context"

	stackerrors "gitstack.dev/gitstack/internal/errors"
)

func (e *engineImpl) CreateBranch(ctx context.Context, branchName string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graph.IsTrunk(branchName) || e.graph.Has(branchName) {
		return stackerrors.NewDuplicateBranchError(branchName)
	}
	exists, err := e.runner.BranchExists(branchName)
	if err != nil {
		return err
	}
	if exists {
		return stackerrors.NewDuplicateBranchError(branchName)
	}
	return e.createTracked(ctx, branchName)
}

func (e *engineImpl) CheckoutBranch(ctx context.Context, branchName string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	exists, err := e.runner.BranchExists(branchName)
	if err != nil {
		return false, err
	}

	tracked := e.graph.IsTrunk(branchName) || e.graph.Has(branchName)
	if tracked && !exists {
		return false, stackerrors.NewStaleBranchError(branchName)
	}
	if exists {
		return false, e.runner.CheckoutBranch(ctx, branchName)
	}
	if err := e.createTracked(ctx, branchName); err != nil {
		return false, err
	}
	return true, nil
}

// createTracked creates branchName at the current branch's tip, switches to
// it, and adds the node. Callers hold mu and have checked for duplicates.
func (e *engineImpl) createTracked(ctx context.Context, branchName string) error {
	current, err := e.runner.GetCurrentBranch()
	if err != nil {
		return err
	}
	if !e.graph.IsTrunk(current) && !e.graph.Has(current) {
		return stackerrors.NewUnknownParentError(branchName, current)
	}
	currentTip, err := e.runner.GetRevision(current)
	if err != nil {
		return err
	}

	if err := e.runner.CreateAndCheckoutBranch(ctx, branchName); err != nil {
		return err
	}
	if err := e.graph.Add(branchName, current, currentTip); err != nil {
		return err
	}
	return e.save()
}

func (e *engineImpl) MountBranch(ctx context.Context, branchName, newParent string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graph.IsTrunk(branchName) {
		return stackerrors.ErrTrunkOperation
	}
	if !e.graph.IsTrunk(newParent) && !e.graph.Has(newParent) {
		return stackerrors.NewUnknownParentError(branchName, newParent)
	}

	parentExists, err := e.runner.BranchExists(newParent)
	if err != nil {
		return err
	}
	if !parentExists {
		return stackerrors.NewStaleBranchError(newParent)
	}
	parentTip, err := e.runner.GetRevision(newParent)
	if err != nil {
		return err
	}

	if e.graph.Has(branchName) {
		if err := e.graph.Reparent(branchName, newParent, parentTip); err != nil {
			return err
		}
		return e.save()
	}

	exists, err := e.runner.BranchExists(branchName)
	if err != nil {
		return err
	}
	if !exists {
		return stackerrors.NewNotFoundError(branchName)
	}
	if err := e.graph.Add(branchName, newParent, parentTip); err != nil {
		return err
	}
	return e.save()
}

func (e *engineImpl) DeleteBranch(ctx context.Context, branchName string, deleteGitBranch bool) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graph.IsTrunk(branchName) {
		return nil, stackerrors.ErrTrunkOperation
	}
	node := e.graph.Node(branchName)
	if node == nil {
		return nil, stackerrors.NewNotFoundError(branchName)
	}
	parent := node.Parent

	rewired, err := e.graph.Remove(branchName)
	if err != nil {
		return nil, err
	}
	if err := e.save(); err != nil {
		return nil, err
	}

	if deleteGitBranch {
		current, err := e.runner.GetCurrentBranch()
		if err != nil {
			return rewired, err
		}
		if current == branchName {
			// git refuses to delete the checked-out branch.
			if err := e.runner.CheckoutBranch(ctx, parent); err != nil {
				return rewired, err
			}
		}
		exists, err := e.runner.BranchExists(branchName)
		if err != nil {
			return rewired, err
		}
		if exists {
			if err := e.runner.DeleteBranch(ctx, branchName); err != nil {
				return rewired, err
			}
		}
	}
	return rewired, nil
}
