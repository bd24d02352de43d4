package actions

import (
	"fmt"
	"strings"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/runtime"
)

// AbortOptions contains options for the abort command
type AbortOptions struct {
	// Undo also moves every branch of the run back to its pre-restack tip
	// using the backup refs written when the run started.
	Undo bool
}

// AbortAction drops a paused restack: the in-progress rebase is aborted and
// the resume file removed. By default branches restacked before the conflict
// keep their new positions and the run's backup refs stay around for manual
// recovery; with Undo the backups are replayed and removed.
func AbortAction(ctx *runtime.Context, opts AbortOptions) error {
	splog := ctx.Splog

	state, stateErr := config.GetResumeState(ctx.GitDir)
	if stateErr != nil {
		if git.IsRebaseInProgress(ctx.Context) {
			return fmt.Errorf("a rebase is in progress but it was not started by git-stack; abort it with 'git rebase --abort'")
		}
		splog.Info("No restack in progress to abort.")
		return nil
	}

	if git.IsRebaseInProgress(ctx.Context) {
		if err := git.RebaseAbort(ctx.Context); err != nil {
			return fmt.Errorf("failed to abort the rebase: %w", err)
		}
		splog.Info("Aborted the rebase of %s.", state.PausedBranch)
	}

	if err := config.ClearResumeState(ctx.GitDir); err != nil {
		return fmt.Errorf("failed to clear the paused restack: %w", err)
	}

	if opts.Undo {
		if state.RunID == "" {
			return fmt.Errorf("this restack recorded no backup refs, so there is nothing to undo")
		}
		if err := restoreBackupRefs(ctx, state.RunID); err != nil {
			return err
		}
		RestoreReturnBranch(ctx, state.ReturnBranch)
		splog.Info("The restack is undone; every branch is back at its pre-restack tip.")
		return nil
	}

	RestoreReturnBranch(ctx, state.ReturnBranch)
	splog.Info("The restack is abandoned.")
	if state.RunID != "" {
		splog.Tip("Branches restacked before the conflict kept their new positions. Every pre-restack tip is saved under %s/%s/.", BackupRefPrefix, state.RunID)
	}
	return nil
}

// restoreBackupRefs moves every branch recorded under the run's backup prefix
// back to its saved tip, then deletes the backups. The checked-out branch is
// moved with a hard reset so the worktree follows.
func restoreBackupRefs(ctx *runtime.Context, runID string) error {
	prefix := fmt.Sprintf("%s/%s/", BackupRefPrefix, runID)
	refs, err := git.ListRefs(prefix)
	if err != nil {
		return fmt.Errorf("failed to list backup refs: %w", err)
	}
	if len(refs) == 0 {
		return fmt.Errorf("no backup refs found under %s", prefix)
	}

	current, err := git.GetCurrentBranch()
	if err != nil {
		current = ""
	}
	for _, ref := range refs {
		branchName := strings.TrimPrefix(ref, prefix)
		rev, err := git.GetRevision(ref)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", ref, err)
		}
		if branchName == current {
			if err := git.HardReset(ctx.Context, rev); err != nil {
				return fmt.Errorf("failed to reset %s: %w", branchName, err)
			}
		} else if err := git.UpdateRef("refs/heads/"+branchName, rev); err != nil {
			return fmt.Errorf("failed to restore %s: %w", branchName, err)
		}
		ctx.Splog.Debug("Restored %s to %s", branchName, rev)
	}

	for _, ref := range refs {
		if err := git.DeleteRef(ref); err != nil {
			ctx.Splog.Debug("Could not remove %s: %v", ref, err)
		}
	}
	return nil
}
