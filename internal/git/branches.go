package git

import (
	"fmt"
)

var defaultRepo *Repository

// InitDefaultRepo initializes the default repository from the current directory
func InitDefaultRepo() error {
	if defaultRepo != nil {
		return nil // Already initialized
	}

	repoRoot, err := GetRepoRoot()
	if err != nil {
		return err
	}

	repo, err := OpenRepository(repoRoot)
	if err != nil {
		return err
	}

	defaultRepo = repo
	return nil
}

// InitDefaultRepoInDir points the default repository at a specific directory,
// replacing any previously opened repository. Tests use this to target
// freshly created repos within a single process.
func InitDefaultRepoInDir(dir string) error {
	repo, err := OpenRepository(dir)
	if err != nil {
		return err
	}

	defaultRepo = repo
	return nil
}

// ResetDefaultRepo forgets the cached default repository so the next
// InitDefaultRepo call re-discovers it from the working directory.
func ResetDefaultRepo() {
	defaultRepo = nil
}

// GetDefaultRepo returns the default repository (must call InitDefaultRepo first)
func GetDefaultRepo() (*Repository, error) {
	if defaultRepo == nil {
		return nil, fmt.Errorf("repository not initialized, call InitDefaultRepo first")
	}
	return defaultRepo, nil
}

// GetAllBranchNames returns all local branch names in the repository
func GetAllBranchNames() ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}
	return repo.GetBranchNames()
}

// GetCurrentBranch returns the current branch name
func GetCurrentBranch() (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}
	return repo.GetCurrentBranch()
}

// BranchExists reports whether a local branch exists in the repository
func BranchExists(branchName string) (bool, error) {
	names, err := GetAllBranchNames()
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == branchName {
			return true, nil
		}
	}
	return false, nil
}
