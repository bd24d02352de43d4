package git

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing"
)

// RebaseResult represents the result of a rebase operation
type RebaseResult int

const (
	// RebaseDone indicates the rebase was successful
	RebaseDone RebaseResult = iota
	// RebaseConflict indicates a conflict occurred during rebase
	RebaseConflict
)

// Rebase replays the commits of branchName that are not reachable from
// from onto onto:
//
//	git rebase --onto <onto> <from> <branchName>
//
// Passing the branch name as the operand makes git check the branch out and
// move its ref on success, so a later `rebase --continue` finishes on the
// branch itself rather than a detached HEAD.
//
// Returns RebaseConflict with a nil error when the rebase stopped on a
// conflict and is waiting for resolution. A non-nil error means the rebase
// failed outright and was aborted.
func Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--onto", onto, from, branchName)
	if err != nil {
		if IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		// Not a conflict stop. Clear any partial state before reporting.
		_, _ = RunGitCommandWithContext(ctx, "rebase", "--abort")
		return RebaseConflict, fmt.Errorf("failed to rebase %s onto %s: %w", branchName, onto, err)
	}

	return RebaseDone, nil
}

// IsRebaseInProgress checks if a rebase is currently in progress
func IsRebaseInProgress(ctx context.Context) bool {
	// Check for .git/rebase-merge or .git/rebase-apply directories
	// This is more reliable than checking REBASE_HEAD which can persist after rebase
	output, err := RunGitCommandWithContext(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}

	gitDir := output
	// Check for interactive rebase
	if _, err := os.Stat(gitDir + "/rebase-merge"); err == nil {
		return true
	}
	// Check for non-interactive rebase
	if _, err := os.Stat(gitDir + "/rebase-apply"); err == nil {
		return true
	}
	return false
}

// RebaseContinue continues an in-progress rebase
func RebaseContinue(ctx context.Context) (RebaseResult, error) {
	_, err := RunGitCommandWithContext(ctx, "-c", "core.editor=true", "rebase", "--continue")
	if err != nil {
		// Check if rebase is still in progress (another conflict)
		if IsRebaseInProgress(ctx) {
			return RebaseConflict, nil
		}
		return RebaseConflict, fmt.Errorf("rebase continue failed: %w", err)
	}

	return RebaseDone, nil
}

// RebaseAbort aborts an in-progress rebase
func RebaseAbort(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "rebase", "--abort")
	if err != nil {
		return fmt.Errorf("rebase abort failed: %w", err)
	}
	return nil
}

// GetRebaseHead returns the commit being rebased (REBASE_HEAD)
func GetRebaseHead() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	refs := []plumbing.ReferenceName{
		"refs/rebase-merge/head",
		"refs/rebase-apply/head",
		"REBASE_HEAD",
	}

	for _, refName := range refs {
		ref, err := repo.Reference(refName, true)
		if err == nil {
			return ref.Hash().String(), nil
		}
	}

	return "", fmt.Errorf("rebase head not found")
}

// GetUnmergedFiles returns the paths currently in conflict during a rebase
func GetUnmergedFiles(ctx context.Context) ([]string, error) {
	lines, err := RunGitCommandLinesWithContext(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	return lines, nil
}
