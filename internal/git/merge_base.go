package git

import (
	"fmt"
	"strconv"
)

// GetMergeBase returns the merge base of two revisions. Either side may be
// a branch name, a SHA, or any ref resolveRefHash understands.
func GetMergeBase(rev1, rev2 string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash1, err := resolveRefHash(repo, rev1)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev1, err)
	}

	hash2, err := resolveRefHash(repo, rev2)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev2, err)
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	commit1, err := repo.CommitObject(hash1)
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %s: %w", rev1, err)
	}

	commit2, err := repo.CommitObject(hash2)
	if err != nil {
		return "", fmt.Errorf("failed to get commit for %s: %w", rev2, err)
	}

	mergeBases, err := commit1.MergeBase(commit2)
	if err != nil {
		return "", fmt.Errorf("failed to find merge base: %w", err)
	}

	if len(mergeBases) == 0 {
		return "", fmt.Errorf("no merge base between %s and %s", rev1, rev2)
	}

	return mergeBases[0].Hash.String(), nil
}

// IsAncestor checks if the first revision is an ancestor of the second
func IsAncestor(ancestor, descendant string) (bool, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return false, err
	}

	ancestorHash, err := resolveRefHash(repo, ancestor)
	if err != nil {
		return false, fmt.Errorf("failed to resolve ancestor ref: %w", err)
	}

	descendantHash, err := resolveRefHash(repo, descendant)
	if err != nil {
		return false, fmt.Errorf("failed to resolve descendant ref: %w", err)
	}

	if ancestorHash == descendantHash {
		return true, nil
	}

	goGitMu.Lock()
	defer goGitMu.Unlock()

	ancestorCommit, err := repo.CommitObject(ancestorHash)
	if err != nil {
		return false, fmt.Errorf("failed to get ancestor commit: %w", err)
	}

	descendantCommit, err := repo.CommitObject(descendantHash)
	if err != nil {
		return false, fmt.Errorf("failed to get descendant commit: %w", err)
	}

	return ancestorCommit.IsAncestor(descendantCommit)
}

// CountCommits returns the number of commits on base..head
func CountCommits(base, head string) (int, error) {
	output, err := RunGitCommand("rev-list", "--count", base+".."+head)
	if err != nil {
		return 0, fmt.Errorf("failed to count commits %s..%s: %w", base, head, err)
	}
	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, fmt.Errorf("unexpected rev-list output %q: %w", output, err)
	}
	return count, nil
}
