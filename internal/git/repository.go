package git

import (
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	stackerrors "gitstack.dev/gitstack/internal/errors"
)

// Repository wraps a go-git repository for cheap read paths. Anything that
// mutates the repo goes through the git CLI instead.
type Repository struct {
	*git.Repository
	path string
}

// OpenRepository opens the git repository containing path, walking up to
// find the .git directory the way git itself does.
func OpenRepository(path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := git.PlainOpenWithOptions(absPath, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	return &Repository{
		Repository: repo,
		path:       absPath,
	}, nil
}

// GetReference returns a fully resolved reference by name
func (r *Repository) GetReference(name string) (*plumbing.Reference, error) {
	return r.Reference(plumbing.ReferenceName(name), true)
}

// GetBranchRevision returns the commit hash a local branch points at.
func (r *Repository) GetBranchRevision(branchName string) (string, error) {
	ref, err := r.Reference(plumbing.NewBranchReferenceName(branchName), true)
	if err != nil {
		if err == plumbing.ErrReferenceNotFound {
			return "", stackerrors.NewNotFoundError(branchName)
		}
		return "", fmt.Errorf("failed to resolve branch %s: %w", branchName, err)
	}
	return ref.Hash().String(), nil
}

// GetBranchNames returns all local branch names
func (r *Repository) GetBranchNames() ([]string, error) {
	branches, err := r.Branches()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}

	var names []string
	err = branches.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsBranch() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate branches: %w", err)
	}

	return names, nil
}

// GetCurrentBranch returns the current branch name. Detached HEAD (for
// example mid-rebase) reports ErrNotOnBranch.
func (r *Repository) GetCurrentBranch() (string, error) {
	head, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}

	if !head.Name().IsBranch() {
		return "", stackerrors.ErrNotOnBranch
	}

	return head.Name().Short(), nil
}
