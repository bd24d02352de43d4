package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/config"
	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/internal/utils"
)

// BackupRefPrefix is where restack runs park pre-rebase branch positions.
// Refs survive the run so a bad restack can be recovered by hand with
// `git reset --hard refs/gitstack/backup/<run>/<branch>`.
const BackupRefPrefix = "refs/gitstack/backup"

// ResolveRemote returns the remote to push to and fetch from: the configured
// one when set, otherwise whatever the repository offers.
func ResolveRemote(ctx *runtime.Context) string {
	remote, err := config.GetConfiguredRemote(ctx.GitDir)
	if err == nil && remote != "" {
		return remote
	}
	return git.GetRemote()
}

// PushBranch force-pushes branchName with lease protection, skipping the
// push entirely when the remote already has this exact tip.
func PushBranch(ctx *runtime.Context, branchName string) error {
	remote := ResolveRemote(ctx)
	if remote == "" {
		return fmt.Errorf("no remote configured to push %s to", branchName)
	}

	localSha, err := git.GetRevision(branchName)
	if err != nil {
		return err
	}
	if remoteSha, err := git.GetRemoteRevision(remote, branchName); err == nil && remoteSha == localSha {
		ctx.Splog.Debug("Skipping push of %s. %s/%s is already at %s.", branchName, remote, branchName, localSha)
		return nil
	}

	if err := git.PushBranch(ctx.Context, branchName, remote, false, true); err != nil {
		return err
	}
	ctx.Splog.Info("Pushed %s to %s.", output.ColorBranchName(branchName, false), remote)
	return nil
}

// EnsureCleanTree refuses to start a mutating command over uncommitted
// changes. command names the operation for the error message.
func EnsureCleanTree(ctx *runtime.Context, command string) error {
	clean, err := git.IsWorkingTreeClean(ctx.Context)
	if err != nil {
		return fmt.Errorf("failed to check working tree: %w", err)
	}
	if !clean {
		return stackerrors.NewDirtyWorkingTreeError(command)
	}
	return nil
}

// RestoreReturnBranch puts the user back on the branch the command started
// from. Rebases move HEAD around; losing the user's place is rude.
func RestoreReturnBranch(ctx *runtime.Context, returnBranch string) {
	if returnBranch == "" {
		return
	}
	current, err := git.GetCurrentBranch()
	if err != nil || current == returnBranch {
		return
	}
	exists, err := git.BranchExists(returnBranch)
	if err != nil || !exists {
		return
	}
	if err := git.CheckoutBranch(ctx.Context, returnBranch); err != nil {
		ctx.Splog.Warn("Could not switch back to %s: %v", returnBranch, err)
	}
}

// requireTrackedBranch resolves branchName (current branch when empty) and
// verifies it is a tracked, non-trunk branch.
func requireTrackedBranch(ctx *runtime.Context, branchName string) (string, error) {
	name := branchName
	if name == "" {
		current, err := ctx.Engine.CurrentBranch()
		if err != nil {
			return "", err
		}
		name = current
	}
	if ctx.Engine.IsTrunk(name) {
		return "", fmt.Errorf("%s is the trunk; pick a stacked branch", name)
	}
	if !ctx.Engine.IsBranchTracked(name) {
		return "", fmt.Errorf("%s is not tracked by git-stack. Run 'git-stack mount <parent> --branch %s' to add it to a stack", name, name)
	}
	return name, nil
}

// confirmOr prompts unless force short-circuits. Non-interactive runs refuse
// rather than guess.
func confirmOr(force bool, prompt string) (bool, error) {
	if force {
		return true, nil
	}
	if !utils.IsInteractive() {
		return false, fmt.Errorf("refusing to proceed without confirmation in a non-interactive run; pass --force")
	}
	return tui.PromptConfirm(prompt, false)
}

// pluralize appends s for counts other than one, with the irregular nouns
// the messages here actually use.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	switch word {
	case "child":
		return "children"
	case "branch":
		return "branches"
	}
	return word + "s"
}
