package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stackerrors "gitstack.dev/gitstack/internal/errors"
)

// ErrStaleRemoteInfo indicates that a force-with-lease push was rejected
// because the remote branch moved since it was last fetched.
var ErrStaleRemoteInfo = errors.New("stale info")

// PushBranch pushes a branch to remote with optional force
// If forceWithLease is true, uses --force-with-lease (safer)
// If force is true, uses --force (overwrites remote)
// If both are false, does a normal push
func PushBranch(ctx context.Context, branchName, remote string, force, forceWithLease bool) error {
	args := []string{"push", "-u", remote}

	if force {
		args = append(args, "--force")
	} else if forceWithLease {
		args = append(args, "--force-with-lease")
	}

	args = append(args, branchName)

	_, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		var cmdErr *stackerrors.GitCommandError
		if errors.As(err, &cmdErr) {
			combined := cmdErr.Stdout + cmdErr.Stderr
			if strings.Contains(combined, "stale info") || strings.Contains(combined, "forced update") {
				return fmt.Errorf("force-with-lease push of %s was rejected because the remote branch moved. If you are collaborating on this stack, run 'git-stack sync' to pull in changes, or pass --force to overwrite: %w", branchName, ErrStaleRemoteInfo)
			}
		}
		return fmt.Errorf("failed to push branch %s: %w", branchName, err)
	}

	return nil
}
