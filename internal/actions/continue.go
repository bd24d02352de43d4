package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/engine"
	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
)

// ContinueOptions contains options for the continue command
type ContinueOptions struct {
	// All stages every change in the working tree before continuing, the
	// moral equivalent of `git add -A && git rebase --continue`.
	All bool
}

// ContinueAction picks a paused restack back up after the user resolved the
// conflicts that stopped it.
func ContinueAction(ctx *runtime.Context, opts ContinueOptions) error {
	splog := ctx.Splog

	state, err := config.GetResumeState(ctx.GitDir)
	if err != nil {
		if git.IsRebaseInProgress(ctx.Context) {
			return fmt.Errorf("a rebase is in progress but it was not started by git-stack; finish it with 'git rebase --continue'")
		}
		return err
	}

	run := RestackRun{
		Push:         state.Push,
		ReturnBranch: state.ReturnBranch,
		RunID:        state.RunID,
	}

	remaining := state.Remaining
	if git.IsRebaseInProgress(ctx.Context) {
		if opts.All {
			if err := git.StageAll(ctx.Context); err != nil {
				return fmt.Errorf("failed to stage changes: %w", err)
			}
		}

		result, err := ctx.Engine.ContinueRebase(ctx.Context, state.PausedBranch, state.RebasedBase)
		if err != nil {
			return fmt.Errorf("failed to continue the rebase: %w", err)
		}
		if result.Result == engine.RestackConflict {
			// Still conflicted; the resume file stays for the next attempt.
			printConflictStatus(ctx, state.PausedBranch, len(remaining))
			return stackerrors.NewRebaseConflictError(state.PausedBranch, "not every conflict is resolved yet")
		}

		splog.Info("Resolved the conflict; restacked %s.", output.ColorBranchName(state.PausedBranch, true))
		if run.Push {
			if err := PushBranch(ctx, state.PausedBranch); err != nil {
				return fmt.Errorf("failed to push %s: %w", state.PausedBranch, err)
			}
		}
	} else {
		// The user aborted the rebase behind our back. The paused branch was
		// rolled back to its old position, so it re-enters the walk whole.
		splog.Info("No rebase in progress; restacking %s from the top.", output.ColorBranchName(state.PausedBranch, false))
		remaining = append([]string{state.PausedBranch}, remaining...)
	}

	if len(remaining) > 0 {
		// A new conflict in here rewrites the resume file before returning.
		if err := RestackBranches(ctx, remaining, run); err != nil {
			return err
		}
	}

	if err := config.ClearResumeState(ctx.GitDir); err != nil {
		splog.Debug("Failed to clear resume state: %v", err)
	}
	RestoreReturnBranch(ctx, state.ReturnBranch)
	return nil
}
