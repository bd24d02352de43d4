package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	stackerrors "gitstack.dev/gitstack/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// commandRunner executes git subprocesses in the working directory.
type commandRunner struct{}

// defaultRunner is the runner behind the package-level functions
var defaultRunner = &commandRunner{}

// RunGitCommand executes a git command using the default runner and returns the output.
// It uses context.Background() with a default timeout.
func RunGitCommand(args ...string) (string, error) {
	return defaultRunner.run(context.Background(), args...)
}

// RunGitCommandWithContext executes a git command with the given context using the default runner.
func RunGitCommandWithContext(ctx context.Context, args ...string) (string, error) {
	return defaultRunner.run(ctx, args...)
}

func (r *commandRunner) run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", stackerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", stackerrors.NewGitCommandError("git", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunGitCommandLines executes a git command using the default runner and returns output as lines
func RunGitCommandLines(args ...string) ([]string, error) {
	output, err := RunGitCommand(args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// RunGitCommandLinesWithContext executes a git command with context and returns output as lines
func RunGitCommandLinesWithContext(ctx context.Context, args ...string) ([]string, error) {
	output, err := RunGitCommandWithContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// RunGHCommandWithContext executes a gh command with the given context.
func RunGHCommandWithContext(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "gh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", stackerrors.NewGitCommandError("gh", args, stdout.String(), stderr.String(), ctx.Err())
		}
		return "", stackerrors.NewGitCommandError("gh", args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// RunGitCommandInteractive executes a git command with stdin/stdout/stderr
// connected to the terminal. Used for paged output like diff.
func RunGitCommandInteractive(args ...string) error {
	cmd := exec.Command("git", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	return cmd.Run()
}

// Runner is the repository access the engine needs. The real implementation
// shells out to git (and reads refs through go-git); tests substitute an
// in-memory fake.
type Runner interface {
	// Branches and refs
	BranchExists(branchName string) (bool, error)
	GetCurrentBranch() (string, error)
	GetRevision(ref string) (string, error)
	CheckoutBranch(ctx context.Context, branchName string) error
	CreateAndCheckoutBranch(ctx context.Context, branchName string) error
	DeleteBranch(ctx context.Context, branchName string) error

	// History
	GetMergeBase(rev1, rev2 string) (string, error)
	IsAncestor(ancestor, descendant string) (bool, error)
	IsMerged(ctx context.Context, branchName, target string) (bool, error)

	// Rebase control
	Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error)
	RebaseContinue(ctx context.Context) (RebaseResult, error)
	IsRebaseInProgress(ctx context.Context) bool
}

// NewRealRunner returns the Runner implementation backed by the package-level
// git functions.
func NewRealRunner() Runner {
	return &realRunner{}
}

// realRunner implements Runner by calling the actual git package functions
type realRunner struct{}

func (r *realRunner) BranchExists(branchName string) (bool, error) {
	return BranchExists(branchName)
}

func (r *realRunner) GetCurrentBranch() (string, error) {
	return GetCurrentBranch()
}

func (r *realRunner) GetRevision(ref string) (string, error) {
	return GetRevision(ref)
}

func (r *realRunner) CheckoutBranch(ctx context.Context, branchName string) error {
	return CheckoutBranch(ctx, branchName)
}

func (r *realRunner) CreateAndCheckoutBranch(ctx context.Context, branchName string) error {
	return CreateAndCheckoutBranch(ctx, branchName)
}

func (r *realRunner) DeleteBranch(ctx context.Context, branchName string) error {
	return DeleteBranch(ctx, branchName)
}

func (r *realRunner) GetMergeBase(rev1, rev2 string) (string, error) {
	return GetMergeBase(rev1, rev2)
}

func (r *realRunner) IsAncestor(ancestor, descendant string) (bool, error) {
	return IsAncestor(ancestor, descendant)
}

func (r *realRunner) IsMerged(ctx context.Context, branchName, target string) (bool, error) {
	return IsMerged(ctx, branchName, target)
}

func (r *realRunner) Rebase(ctx context.Context, branchName, onto, from string) (RebaseResult, error) {
	return Rebase(ctx, branchName, onto, from)
}

func (r *realRunner) RebaseContinue(ctx context.Context) (RebaseResult, error) {
	return RebaseContinue(ctx)
}

func (r *realRunner) IsRebaseInProgress(ctx context.Context) bool {
	return IsRebaseInProgress(ctx)
}
