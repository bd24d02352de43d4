package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const textFileName = "test.txt"

// GitRepo drives a real git repository on disk through the git binary.
// Tests use it to lay out commits, branches, and remotes.
type GitRepo struct {
	Dir string
}

// NewGitRepo initializes a new Git repository in the specified directory using 'git init'.
func NewGitRepo(dir string) (*GitRepo, error) {
	repo := &GitRepo{Dir: dir}

	// Initialize with local config only so the developer's global git
	// config cannot leak into test behavior.
	cmd := exec.Command("git", "-c", "init.defaultBranch=main", "-c", "core.autocrlf=false", "-c", "core.fileMode=false", "init", dir, "-b", "main")
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("failed to init repo: %w", err)
	}

	// Configure Git user (required for commits)
	if err := repo.runGitCommand("config", "user.name", "Test User"); err != nil {
		return nil, err
	}
	if err := repo.runGitCommand("config", "user.email", "test@example.com"); err != nil {
		return nil, err
	}

	return repo, nil
}

// runGitCommand executes a git command in the repository directory.
func (r *GitRepo) runGitCommand(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if os.Getenv("DEBUG") != "" {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// RunGitCommand executes a git command and returns an error if it fails.
func (r *GitRepo) RunGitCommand(args ...string) error {
	return r.runGitCommand(args...)
}

// runGitCommandAndGetOutput executes a git command and returns its trimmed output.
func (r *GitRepo) runGitCommandAndGetOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git command failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// RunGitCommandAndGetOutput executes a git command and returns its output.
func (r *GitRepo) RunGitCommandAndGetOutput(args ...string) (string, error) {
	return r.runGitCommandAndGetOutput(args...)
}

// RunCliCommand executes the git-stack test binary in the repository directory.
func (r *GitRepo) RunCliCommand(command ...string) error {
	cliPath := GetSharedBinaryPath()
	if cliPath == "" {
		return fmt.Errorf("git-stack binary unavailable: %w", GetBinaryError())
	}

	cmd := exec.Command(cliPath, command...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GITSTACK_NON_INTERACTIVE=1")
	if os.Getenv("DEBUG") != "" {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("CLI command failed: %w", err)
	}
	return nil
}

// RunCliCommandAndGetOutput executes the git-stack test binary and returns
// its combined output.
func (r *GitRepo) RunCliCommandAndGetOutput(command ...string) (string, error) {
	cliPath := GetSharedBinaryPath()
	if cliPath == "" {
		return "", fmt.Errorf("git-stack binary unavailable: %w", GetBinaryError())
	}

	cmd := exec.Command(cliPath, command...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GITSTACK_NON_INTERACTIVE=1")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("CLI command failed: %w, output: %s", err, string(output))
	}
	return string(output), nil
}

// CreateChange creates a file change in the repository.
func (r *GitRepo) CreateChange(textValue string, prefix string, unstaged bool) error {
	fileName := textFileName
	if prefix != "" {
		fileName = prefix + "_" + fileName
	}
	filePath := filepath.Join(r.Dir, fileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filePath, []byte(textValue), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	if !unstaged {
		return r.runGitCommand("add", filePath)
	}
	return nil
}

// CreateChangeAndCommit creates a file change and commits it with the change
// text as the message.
func (r *GitRepo) CreateChangeAndCommit(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "-m", textValue)
}

// CreateChangeAndAmend creates a file change and amends the last commit.
func (r *GitRepo) CreateChangeAndAmend(textValue string, prefix string) error {
	if err := r.CreateChange(textValue, prefix, false); err != nil {
		return err
	}
	if err := r.runGitCommand("add", "."); err != nil {
		return err
	}
	return r.runGitCommand("commit", "--amend", "--no-edit")
}

// DeleteBranch deletes a branch.
func (r *GitRepo) DeleteBranch(name string) error {
	return r.runGitCommand("branch", "-D", name)
}

// CreateBranch creates a new branch without checking it out.
func (r *GitRepo) CreateBranch(name string) error {
	return r.runGitCommand("branch", name)
}

// CreateAndCheckoutBranch creates and checks out a new branch.
func (r *GitRepo) CreateAndCheckoutBranch(name string) error {
	return r.runGitCommand("checkout", "-b", name)
}

// CheckoutBranch checks out a branch.
func (r *GitRepo) CheckoutBranch(name string) error {
	return r.runGitCommand("checkout", name)
}

// CheckoutDetached checks out a revision in detached HEAD state.
func (r *GitRepo) CheckoutDetached(rev string) error {
	return r.runGitCommand("checkout", "--detach", rev)
}

// RebaseInProgress checks if a rebase is in progress.
func (r *GitRepo) RebaseInProgress() bool {
	rebasePath := filepath.Join(r.Dir, ".git", "rebase-merge")
	_, err := os.Stat(rebasePath)
	return err == nil
}

// ResolveMergeConflicts resolves merge conflicts by accepting theirs.
func (r *GitRepo) ResolveMergeConflicts() error {
	return r.runGitCommand("checkout", "--theirs", ".")
}

// MarkMergeConflictsAsResolved marks merge conflicts as resolved.
func (r *GitRepo) MarkMergeConflictsAsResolved() error {
	return r.runGitCommand("add", ".")
}

// CurrentBranchName returns the name of the current branch.
func (r *GitRepo) CurrentBranchName() (string, error) {
	return r.runGitCommandAndGetOutput("branch", "--show-current")
}

// GetRef returns the SHA of a ref.
func (r *GitRepo) GetRef(refName string) (string, error) {
	return r.runGitCommandAndGetOutput("show-ref", "-s", refName)
}

// GetRevision returns the SHA of a revision (branch, tag, or commit reference).
func (r *GitRepo) GetRevision(rev string) (string, error) {
	return r.runGitCommandAndGetOutput("rev-parse", rev)
}

// GetCurrentSHA returns the SHA of HEAD.
func (r *GitRepo) GetCurrentSHA() (string, error) {
	return r.GetRevision("HEAD")
}

// GetCommitCount returns the number of commits between two refs.
func (r *GitRepo) GetCommitCount(from, to string) (int, error) {
	output, err := r.runGitCommandAndGetOutput("rev-list", "--count", from+".."+to)
	if err != nil {
		return 0, err
	}
	var count int
	if _, err := fmt.Sscanf(output, "%d", &count); err != nil {
		return 0, fmt.Errorf("failed to parse commit count: %w", err)
	}
	return count, nil
}

// ListCurrentBranchCommitMessages returns the commit messages on the current branch.
func (r *GitRepo) ListCurrentBranchCommitMessages() ([]string, error) {
	output, err := r.runGitCommandAndGetOutput("log", "--oneline", "--format=%B")
	if err != nil {
		return nil, err
	}

	lines := []string{}
	for _, line := range splitLines(output) {
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// GetLocalBranches returns a list of all local branches.
func (r *GitRepo) GetLocalBranches() ([]string, error) {
	output, err := r.runGitCommandAndGetOutput("branch", "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// MergeBranch merges a branch into another.
func (r *GitRepo) MergeBranch(branch, mergeIn string) error {
	if err := r.CheckoutBranch(branch); err != nil {
		return err
	}
	return r.runGitCommand("merge", mergeIn)
}

// HasUnstagedChanges checks if there are unstaged changes to tracked files.
func (r *GitRepo) HasUnstagedChanges() (bool, error) {
	output, err := r.runGitCommandAndGetOutput("diff", "--name-only")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// IsAncestor checks if the first ref is an ancestor of the second ref.
func (r *GitRepo) IsAncestor(ancestor, descendant string) (bool, error) {
	err := r.runGitCommand("merge-base", "--is-ancestor", ancestor, descendant)
	return err == nil, nil
}

// CreateBareRemote creates a bare git repository to act as a remote.
// Returns the path to the bare repository.
func (r *GitRepo) CreateBareRemote(name string) (string, error) {
	// A sibling directory keyed by the repo dir, so each test gets its own.
	bareDir := r.Dir + "-" + name + ".git"

	cmd := exec.Command("git", "init", "--bare", bareDir)
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to create bare repo: %w", err)
	}

	if err := r.runGitCommand("remote", "add", name, bareDir); err != nil {
		return "", fmt.Errorf("failed to add remote: %w", err)
	}
	return bareDir, nil
}

// PushBranch pushes a branch to a remote and sets its upstream.
func (r *GitRepo) PushBranch(remote, branch string) error {
	cmd := exec.Command("git", "push", "-u", remote, branch)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("push failed: %w, output: %s", err, string(output))
	}
	return nil
}

// ForcePushBranch force pushes a branch to a remote.
func (r *GitRepo) ForcePushBranch(remote, branch string) error {
	return r.runGitCommand("push", "-f", remote, branch)
}

// splitLines splits a string by newlines and returns non-empty lines.
func splitLines(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
