package git

import (
	"context"
	"fmt"
)

// IsWorkingTreeClean reports whether there are no staged, unstaged, or
// untracked changes in the working tree.
func IsWorkingTreeClean(ctx context.Context) (bool, error) {
	output, err := RunGitCommandWithContext(ctx, "status", "--porcelain")
	if err != nil {
		return false, fmt.Errorf("failed to check working tree status: %w", err)
	}
	return output == "", nil
}

// StageAll stages all changes including untracked files
func StageAll(ctx context.Context) error {
	_, err := RunGitCommandWithContext(ctx, "add", "-A")
	if err != nil {
		return fmt.Errorf("failed to stage all changes: %w", err)
	}
	return nil
}
