package git

import (
	"context"
	"fmt"
)

// PullResult represents the outcome of a fast-forward pull
type PullResult int

const (
	// PullDone means the branch was fast-forwarded to the remote tip.
	PullDone PullResult = iota
	// PullUnneeded means the branch already matched the remote tip.
	PullUnneeded
	// PullConflict means the branch and the remote have diverged, so a
	// fast-forward is impossible.
	PullConflict
)

// PullBranch fast-forwards branchName to its remote counterpart. It never
// merges or rebases: a diverged branch reports PullConflict and is left
// untouched. The caller is expected to have fetched already.
func PullBranch(ctx context.Context, remote, branchName string) (PullResult, error) {
	localSha, err := GetRevision(branchName)
	if err != nil {
		return PullConflict, fmt.Errorf("failed to resolve %s: %w", branchName, err)
	}
	remoteSha, err := GetRemoteRevision(remote, branchName)
	if err != nil {
		return PullConflict, fmt.Errorf("failed to resolve %s/%s: %w", remote, branchName, err)
	}
	if localSha == remoteSha {
		return PullUnneeded, nil
	}

	fastForwardable, err := IsAncestor(localSha, remoteSha)
	if err != nil {
		return PullConflict, err
	}
	if !fastForwardable {
		return PullConflict, nil
	}

	currentBranch, err := GetCurrentBranch()
	if err != nil {
		currentBranch = ""
	}
	if currentBranch == branchName {
		// Checked out: merge so the working tree advances with the ref.
		if _, err := RunGitCommandWithContext(ctx, "merge", "--ff-only", remote+"/"+branchName); err != nil {
			return PullConflict, fmt.Errorf("failed to fast-forward %s: %w", branchName, err)
		}
		return PullDone, nil
	}

	// Not checked out: move the ref directly. The old-value argument makes
	// this a compare-and-swap, so a racing update fails instead of clobbering.
	if _, err := RunGitCommandWithContext(ctx, "update-ref", "refs/heads/"+branchName, remoteSha, localSha); err != nil {
		return PullConflict, fmt.Errorf("failed to fast-forward %s: %w", branchName, err)
	}
	return PullDone, nil
}
