package utils

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"gitstack.dev/gitstack/internal/git"
)

// IsInteractive checks if we're in an interactive terminal
func IsInteractive() bool {
	// Allow forcing non-interactive mode via environment variable
	if os.Getenv("GITSTACK_NON_INTERACTIVE") != "" || os.Getenv("GITSTACK_TEST_NO_INTERACTIVE") != "" {
		return false
	}

	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// CheckRebaseInProgress ensures no rebase is currently active
func CheckRebaseInProgress(ctx context.Context) error {
	if git.IsRebaseInProgress(ctx) {
		return fmt.Errorf("a rebase is already in progress. Run 'git-stack continue' or 'git-stack abort' first")
	}
	return nil
}

// HasUncommittedChanges checks if there are uncommitted changes in the repository
func HasUncommittedChanges(ctx context.Context) bool {
	clean, err := git.IsWorkingTreeClean(ctx)
	if err != nil {
		return false
	}
	return !clean
}
