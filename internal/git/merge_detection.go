package git

import (
	"context"
	"fmt"
	"strings"
)

// IsMerged checks if a branch is merged into target (usually trunk).
// Uses git cherry so that squash-merged and rebased branches are detected,
// not just direct merges.
func IsMerged(ctx context.Context, branchName, target string) (bool, error) {
	mergeBase, err := GetMergeBase(branchName, target)
	if err != nil {
		return false, fmt.Errorf("failed to get merge base: %w", err)
	}

	branchRev, err := GetRevision(branchName)
	if err != nil {
		return false, fmt.Errorf("failed to get branch revision: %w", err)
	}

	// If merge base equals branch revision, branch is already merged
	if mergeBase == branchRev {
		return true, nil
	}

	// git cherry <target> <branch> lists commits in branch but not target.
	// Lines starting with '-' have an equivalent commit in target.
	cherryOutput, err := RunGitCommandWithContext(ctx, "cherry", target, branchName)
	if err != nil {
		// If cherry fails, fall back to a reachability check
		_, err = RunGitCommandWithContext(ctx, "merge-base", "--is-ancestor", branchRev, target)
		return err == nil, nil
	}

	if cherryOutput == "" {
		return true, nil
	}

	for _, line := range strings.Split(cherryOutput, "\n") {
		if line != "" && line[0] != '-' {
			return false, nil
		}
	}

	return true, nil
}
