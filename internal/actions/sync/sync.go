// Package sync brings the local stacks in line with the remote: fetch with
// pruning, fast-forward the trunk, prune branches whose work has landed, and
// optionally chain into a full restack.
package sync

import (
	"fmt"

	"github.com/google/uuid"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/utils"
)

// Options contains options for the sync command
type Options struct {
	// Restack chains into a restack of every tracked branch afterwards.
	Restack bool
	// Push force-pushes branches as the chained restack updates them.
	// Without Restack it has no effect.
	Push bool
	// Force skips prune confirmations and resets a diverged trunk to the
	// remote instead of leaving it alone.
	Force bool
}

// Action fetches the remote, fast-forwards the trunk, prunes tracked branches
// whose work is already in the trunk, and optionally restacks what is left.
func Action(ctx *runtime.Context, opts Options) error {
	splog := ctx.Splog

	if config.HasResumeState(ctx.GitDir) {
		return fmt.Errorf("a restack is paused. Run 'git-stack continue' or 'git-stack abort' before syncing")
	}
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}
	if err := actions.EnsureCleanTree(ctx, "sync"); err != nil {
		return err
	}

	remote := actions.ResolveRemote(ctx)
	if remote == "" {
		return fmt.Errorf("sync needs a remote and this repository has none")
	}

	splog.Info("Fetching %s...", remote)
	if err := git.Fetch(ctx.Context, remote); err != nil {
		return err
	}

	if err := syncTrunk(ctx, remote, opts.Force); err != nil {
		return err
	}
	if err := pruneMergedBranches(ctx, opts.Force); err != nil {
		return err
	}

	if opts.Restack {
		if err := restackEverything(ctx, opts.Push); err != nil {
			return err
		}
	} else {
		if opts.Push {
			splog.Warn("--push only takes effect together with --restack.")
		}
		reportPendingRestacks(ctx)
	}

	splog.Info("Sync complete.")
	return nil
}

// syncTrunk fast-forwards the trunk to the remote. A diverged trunk is left
// alone unless force resets it, because throwing away local trunk commits is
// not a call sync gets to make on its own.
func syncTrunk(ctx *runtime.Context, remote string, force bool) error {
	splog := ctx.Splog
	trunk := ctx.Engine.Trunk()

	remoteSha, err := git.GetRemoteRevision(remote, trunk)
	if err != nil {
		splog.Debug("%s has no counterpart on %s; skipping the trunk update.", trunk, remote)
		return nil
	}

	result, err := git.PullBranch(ctx.Context, remote, trunk)
	if err != nil {
		return err
	}
	switch result {
	case git.PullDone:
		splog.Info("%s fast-forwarded to %s.",
			output.ColorBranchName(trunk, false), output.ColorDim(shortSha(remoteSha)))
	case git.PullUnneeded:
		splog.Info("%s is up to date.", output.ColorBranchName(trunk, false))
	case git.PullConflict:
		if !force {
			splog.Warn("%s and %s/%s have diverged. Re-run with --force to reset %s to the remote.",
				trunk, remote, trunk, trunk)
			return nil
		}
		if err := resetTrunkToRemote(ctx, trunk, remoteSha); err != nil {
			return err
		}
		splog.Warn("%s was reset to %s/%s. The old tip is still in the reflog (git reflog %s).",
			trunk, remote, trunk, trunk)
	}
	return nil
}

// resetTrunkToRemote discards the local trunk position in favor of the
// remote's. A checked-out trunk needs a hard reset so the working tree
// follows; otherwise moving the ref is enough.
func resetTrunkToRemote(ctx *runtime.Context, trunk, remoteSha string) error {
	current, err := git.GetCurrentBranch()
	if err != nil {
		current = ""
	}
	if current == trunk {
		return git.HardReset(ctx.Context, remoteSha)
	}
	return git.UpdateRef("refs/heads/"+trunk, remoteSha)
}

// restackEverything walks all tracked branches the same way the restack
// command does from the trunk, backup refs and resume state included.
func restackEverything(ctx *runtime.Context, push bool) error {
	scope, err := ctx.Engine.RestackScope(ctx.Engine.Trunk(), false)
	if err != nil {
		return err
	}
	if len(scope) == 0 {
		ctx.Splog.Info("No branches to restack.")
		return nil
	}

	returnBranch, err := ctx.Engine.CurrentBranch()
	if err != nil {
		returnBranch = ""
	}
	run := actions.RestackRun{
		Push:         push,
		ReturnBranch: returnBranch,
		RunID:        uuid.NewString(),
	}
	if err := actions.WriteBackupRefs(ctx, scope, run.RunID); err != nil {
		return err
	}
	if err := actions.RestackBranches(ctx, scope, run); err != nil {
		return err
	}
	actions.RestoreReturnBranch(ctx, returnBranch)
	return nil
}

// reportPendingRestacks counts branches the sync left out of date.
func reportPendingRestacks(ctx *runtime.Context) {
	scope, err := ctx.Engine.RestackScope(ctx.Engine.Trunk(), false)
	if err != nil {
		return
	}
	pending := 0
	for _, branchName := range scope {
		restacked, err := ctx.Engine.IsBranchRestacked(branchName)
		if err == nil && !restacked {
			pending++
		}
	}
	if pending == 0 {
		return
	}
	word := "branches"
	if pending == 1 {
		word = "branch"
	}
	ctx.Splog.Tip("%d %s could use a restack. Run %s to do it now.",
		pending, word, output.ColorCyan("git-stack sync --restack"))
}

func shortSha(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
