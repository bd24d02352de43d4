package actions

import (
	"fmt"

	"github.com/google/uuid"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/engine"
	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/utils"
)

// RestackOptions contains options for the restack command
type RestackOptions struct {
	// BranchName is the branch to restack; empty means the current branch.
	BranchName string
	// Fetch updates the remote refs before restacking.
	Fetch bool
	// Ancestors widens the work set to the branch's whole stack, bottom up.
	Ancestors bool
	// Push force-pushes (with lease) each branch after it is restacked.
	Push bool
}

// RestackRun carries the flags a restack walk needs to survive a conflict
// pause. They are copied into the resume file so `git-stack continue` picks
// up exactly where the run stopped.
type RestackRun struct {
	Push         bool
	ReturnBranch string
	RunID        string
}

// RestackAction rebases a branch and everything stacked on it onto their
// parents' current tips, parents first.
func RestackAction(ctx *runtime.Context, opts RestackOptions) error {
	splog := ctx.Splog

	// A paused run takes priority: re-invoking restack resumes it.
	if config.HasResumeState(ctx.GitDir) {
		splog.Info("A restack is already paused; picking it back up.")
		return ContinueAction(ctx, ContinueOptions{})
	}
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}
	if err := EnsureCleanTree(ctx, "restack"); err != nil {
		return err
	}

	name := opts.BranchName
	if name == "" {
		current, err := ctx.Engine.CurrentBranch()
		if err != nil {
			return err
		}
		name = current
	}
	if !ctx.Engine.IsTrunk(name) && !ctx.Engine.IsBranchTracked(name) {
		return fmt.Errorf("%s is not tracked by git-stack. Run 'git-stack mount <parent> --branch %s' to add it to a stack", name, name)
	}

	if opts.Fetch {
		remote := ResolveRemote(ctx)
		if remote == "" {
			return fmt.Errorf("--fetch requested but the repository has no remote")
		}
		splog.Debug("Fetching %s", remote)
		if err := git.Fetch(ctx.Context, remote); err != nil {
			return fmt.Errorf("failed to fetch %s: %w", remote, err)
		}
	}

	scope, err := ctx.Engine.RestackScope(name, opts.Ancestors)
	if err != nil {
		return err
	}
	if len(scope) == 0 {
		splog.Info("No branches to restack.")
		return nil
	}

	returnBranch, err := ctx.Engine.CurrentBranch()
	if err != nil {
		// Detached HEAD: nothing to come back to.
		returnBranch = ""
	}

	run := RestackRun{
		Push:         opts.Push,
		ReturnBranch: returnBranch,
		RunID:        uuid.NewString(),
	}
	if err := WriteBackupRefs(ctx, scope, run.RunID); err != nil {
		return err
	}

	if err := RestackBranches(ctx, scope, run); err != nil {
		return err
	}

	RestoreReturnBranch(ctx, returnBranch)
	return nil
}

// WriteBackupRefs records every branch's pre-restack tip under
// refs/gitstack/backup/<runID>/<branch> so a run can be undone by hand.
func WriteBackupRefs(ctx *runtime.Context, branchNames []string, runID string) error {
	for _, branchName := range branchNames {
		rev, err := git.GetRevision(branchName)
		if err != nil {
			return fmt.Errorf("failed to read %s before restacking: %w", branchName, err)
		}
		if err := git.UpdateRef(fmt.Sprintf("%s/%s/%s", BackupRefPrefix, runID, branchName), rev); err != nil {
			return fmt.Errorf("failed to write a backup ref for %s: %w", branchName, err)
		}
	}
	ctx.Splog.Debug("Saved pre-restack tips under %s/%s/", BackupRefPrefix, runID)
	return nil
}

// RestackBranches walks branchNames in order, restacking each onto its
// parent. On a conflict the walk stops: the resume file records the paused
// branch and the remainder, and the repository is left mid-rebase for the
// user to resolve.
func RestackBranches(ctx *runtime.Context, branchNames []string, run RestackRun) error {
	eng := ctx.Engine
	splog := ctx.Splog
	currentBranch, _ := eng.CurrentBranch()

	for i, branchName := range branchNames {
		if eng.IsTrunk(branchName) {
			continue
		}

		parent, err := eng.GetParent(branchName)
		if err != nil {
			return err
		}

		result, err := eng.RestackBranch(ctx.Context, branchName)
		if err != nil {
			return fmt.Errorf("failed to restack %s: %w", branchName, err)
		}

		if result.BaseRecomputed {
			splog.Warn("%s's recorded base is gone from %s; rebased from the merge base instead.", branchName, parent)
		}

		switch result.Result {
		case engine.RestackDone:
			splog.Info("Restacked %s on %s.",
				output.ColorBranchName(branchName, branchName == currentBranch),
				output.ColorBranchName(parent, false))
		case engine.RestackUnneeded:
			if result.AnchorAdvanced {
				splog.Info("%s has no commits of its own; moved its base up to %s's tip.",
					output.ColorBranchName(branchName, branchName == currentBranch),
					output.ColorBranchName(parent, false))
			} else {
				splog.Info("%s does not need to be restacked on %s.",
					output.ColorBranchName(branchName, branchName == currentBranch),
					output.ColorBranchName(parent, false))
			}
		case engine.RestackConflict:
			state := &config.ResumeState{
				PausedBranch: branchName,
				RebasedBase:  result.RebasedBase,
				Remaining:    branchNames[i+1:],
				Push:         run.Push,
				ReturnBranch: run.ReturnBranch,
				RunID:        run.RunID,
			}
			if err := config.PersistResumeState(ctx.GitDir, state); err != nil {
				return fmt.Errorf("failed to save restack progress: %w", err)
			}
			printConflictStatus(ctx, branchName, len(branchNames)-i-1)
			return stackerrors.NewRebaseConflictError(branchName, "")
		}

		if run.Push && result.Result == engine.RestackDone {
			if err := PushBranch(ctx, branchName); err != nil {
				return fmt.Errorf("failed to push %s: %w", branchName, err)
			}
		}
	}
	return nil
}
