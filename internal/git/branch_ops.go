package git

import (
	"context"
	"fmt"
)

// CreateAndCheckoutBranch creates and checks out a new branch at HEAD
func CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", "-b", branchName)
	if err != nil {
		return fmt.Errorf("failed to create and checkout branch %s: %w", branchName, err)
	}
	return nil
}

// CheckoutBranch checks out an existing branch
func CheckoutBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "checkout", branchName)
	if err != nil {
		return fmt.Errorf("failed to checkout branch %s: %w", branchName, err)
	}
	return nil
}

// DeleteBranch deletes a local branch even if it is not fully merged
func DeleteBranch(ctx context.Context, branchName string) error {
	_, err := RunGitCommandWithContext(ctx, "branch", "-D", branchName)
	if err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", branchName, err)
	}
	return nil
}

// UpdateRef points a fully qualified ref at a revision, creating it if needed.
// Used for the backup refs written before each branch is rewritten.
func UpdateRef(name, revision string) error {
	_, err := RunGitCommandWithContext(context.Background(), "update-ref", name, revision)
	if err != nil {
		return fmt.Errorf("failed to update ref %s: %w", name, err)
	}
	return nil
}

// DeleteRef removes a fully qualified ref
func DeleteRef(name string) error {
	_, err := RunGitCommandWithContext(context.Background(), "update-ref", "-d", name)
	if err != nil {
		return fmt.Errorf("failed to delete ref %s: %w", name, err)
	}
	return nil
}

// ListRefs returns the fully qualified ref names matching a pattern,
// e.g. "refs/gitstack/backup/". Returns an empty slice when none match.
func ListRefs(pattern string) ([]string, error) {
	lines, err := RunGitCommandLines("for-each-ref", "--format=%(refname)", pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list refs for %s: %w", pattern, err)
	}
	return lines, nil
}
