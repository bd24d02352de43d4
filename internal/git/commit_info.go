package git

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// goGitMu synchronizes go-git object reads to prevent concurrent packfile access
var goGitMu sync.Mutex

// GetRevision returns the SHA of a branch, tag, or revision expression
func GetRevision(ref string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve reference: %w", err)
	}

	return hash.String(), nil
}

// GetShortRevision returns the abbreviated SHA for a ref
func GetShortRevision(ref string) (string, error) {
	return RunGitCommand("rev-parse", "--short", ref)
}

// GetRemoteRevision returns the SHA of a remote branch (e.g., origin/branchName)
func GetRemoteRevision(remote, branchName string) (string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return "", err
	}

	hash, err := resolveRefHash(repo, remote+"/"+branchName)
	if err != nil {
		return "", fmt.Errorf("failed to get remote branch reference: %w", err)
	}

	return hash.String(), nil
}

// iterateCommits iterates commits from head to base (exclusive of base)
// Returns commits in order from head to base (newest first)
func iterateCommits(repo *Repository, headHash, baseHash plumbing.Hash) ([]*object.Commit, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	var commits []*object.Commit
	visited := make(map[plumbing.Hash]bool)

	queue := []plumbing.Hash{headHash}
	for len(queue) > 0 {
		hash := queue[0]
		queue = queue[1:]

		if visited[hash] || (!baseHash.IsZero() && hash == baseHash) {
			continue
		}
		visited[hash] = true

		commit, err := repo.CommitObject(hash)
		if err != nil {
			return nil, fmt.Errorf("failed to get commit %s: %w", hash, err)
		}

		commits = append(commits, commit)

		for _, parentHash := range commit.ParentHashes {
			if !visited[parentHash] && (baseHash.IsZero() || parentHash != baseHash) {
				queue = append(queue, parentHash)
			}
		}
	}

	return commits, nil
}

// resolveRefHash resolves a ref (branch name, SHA, or ref path) to a hash
func resolveRefHash(repo *Repository, ref string) (plumbing.Hash, error) {
	goGitMu.Lock()
	defer goGitMu.Unlock()

	// 1. Try as a full reference name
	if r, err := repo.Reference(plumbing.ReferenceName(ref), true); err == nil {
		return r.Hash(), nil
	}

	// 2. Try as a local branch
	if r, err := repo.Reference(plumbing.ReferenceName("refs/heads/"+ref), true); err == nil {
		return r.Hash(), nil
	}

	// 3. Try as a remote-tracking branch
	if r, err := repo.Reference(plumbing.ReferenceName("refs/remotes/"+ref), true); err == nil {
		return r.Hash(), nil
	}

	// 4. Try as a tag
	if r, err := repo.Reference(plumbing.ReferenceName("refs/tags/"+ref), true); err == nil {
		return r.Hash(), nil
	}

	// 5. Try ResolveRevision (handles SHAs, short SHAs, and expressions like HEAD~1)
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err == nil {
		return *hash, nil
	}

	return plumbing.ZeroHash, fmt.Errorf("failed to resolve ref %s: reference not found", ref)
}

// GetCommitMessages returns the commit messages on base..branchName, newest first
func GetCommitMessages(branchName, base string) ([]string, error) {
	repo, err := GetDefaultRepo()
	if err != nil {
		return nil, err
	}

	goGitMu.Lock()
	branchRef, err := repo.Reference(plumbing.ReferenceName("refs/heads/"+branchName), true)
	if err != nil {
		goGitMu.Unlock()
		return nil, fmt.Errorf("failed to get branch reference: %w", err)
	}
	headHash := branchRef.Hash()
	goGitMu.Unlock()

	var baseHash plumbing.Hash
	if base != "" {
		baseHash, err = resolveRefHash(repo, base)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve base revision: %w", err)
		}
	}

	commits, err := iterateCommits(repo, headHash, baseHash)
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	var messages []string
	for _, commit := range commits {
		message := strings.TrimSpace(commit.Message)
		if message != "" {
			messages = append(messages, message)
		}
	}

	return messages, nil
}

// GetCommitSubject returns the subject (first line) of the oldest commit on
// base..branchName. Used as the default pull request title.
func GetCommitSubject(branchName, base string) (string, error) {
	messages, err := GetCommitMessages(branchName, base)
	if err != nil {
		return "", err
	}
	if len(messages) == 0 {
		return "", nil
	}

	// Walk order is head to base, so the oldest commit is last
	oldest := messages[len(messages)-1]
	lines := strings.Split(oldest, "\n")
	return strings.TrimSpace(lines[0]), nil
}
