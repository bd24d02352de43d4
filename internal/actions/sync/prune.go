package sync

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/internal/utils"
)

// pruneCandidate is a tracked branch whose work has landed.
type pruneCandidate struct {
	name   string
	reason string
}

// pruneMergedBranches deletes tracked branches whose work is in the trunk or
// whose pull request merged or closed. Children are rewired onto the nearest
// surviving ancestor by the delete mutator, and their open PRs are
// retargeted to match.
func pruneMergedBranches(ctx *runtime.Context, force bool) error {
	splog := ctx.Splog

	var candidates []pruneCandidate
	for _, branchName := range ctx.Engine.TrackedBranchNames() {
		reason := pruneReason(ctx, branchName)
		if reason == "" {
			continue
		}
		candidates = append(candidates, pruneCandidate{name: branchName, reason: reason})
	}
	if len(candidates) == 0 {
		splog.Debug("No merged branches to prune.")
		return nil
	}

	if !force && !utils.IsInteractive() {
		names := make([]string, len(candidates))
		for i, candidate := range candidates {
			names[i] = candidate.name
		}
		splog.Warn("These branches look finished: %s. Run 'git-stack sync --force' to delete them.",
			strings.Join(names, ", "))
		return nil
	}

	deleted := make(map[string]bool)
	rewiredSet := make(map[string]bool)
	for _, candidate := range candidates {
		if !force {
			confirmed, err := tui.PromptConfirm(fmt.Sprintf("Delete %s (%s)?", candidate.name, candidate.reason), true)
			if err != nil {
				if errors.Is(err, tui.ErrInteractiveDisabled) {
					splog.Warn("Skipping %s; confirmations are disabled. Use --force to prune without prompts.", candidate.name)
					continue
				}
				return err
			}
			if !confirmed {
				splog.Info("Keeping %s.", output.ColorBranchName(candidate.name, false))
				continue
			}
		}

		rewired, err := ctx.Engine.DeleteBranch(ctx.Context, candidate.name, true)
		if err != nil {
			return fmt.Errorf("failed to prune %s: %w", candidate.name, err)
		}
		deleted[candidate.name] = true
		splog.Info("Deleted %s (%s).", output.ColorBranchName(candidate.name, false), candidate.reason)
		for _, child := range rewired {
			rewiredSet[child] = true
		}
	}

	// A rewired child that was itself pruned needs no retargeting.
	var rewired []string
	for child := range rewiredSet {
		if !deleted[child] {
			rewired = append(rewired, child)
		}
	}
	sort.Strings(rewired)
	if len(rewired) > 0 {
		splog.Info("Moved %s onto the nearest surviving parent.", strings.Join(rewired, ", "))
		retargetPullRequests(ctx, rewired)
	}
	return nil
}

// pruneReason reports why a branch is prunable, or "" to keep it.
func pruneReason(ctx *runtime.Context, branchName string) string {
	exists, err := git.BranchExists(branchName)
	if err == nil && !exists {
		return "the git branch is gone"
	}

	merged, err := ctx.Engine.IsMergedIntoTrunk(ctx.Context, branchName)
	if err == nil && merged {
		return fmt.Sprintf("merged into %s", ctx.Engine.Trunk())
	}

	if ctx.GitHub != nil {
		pr, err := ctx.GitHub.GetPullRequestByBranch(ctx.Context, branchName)
		if err != nil {
			ctx.Splog.Debug("Could not look up a pull request for %s: %v", branchName, err)
		} else if pr != nil {
			if pr.Merged {
				return fmt.Sprintf("PR #%d merged", pr.Number)
			}
			if pr.State == "closed" {
				return fmt.Sprintf("PR #%d closed", pr.Number)
			}
		}
	}
	return ""
}

// retargetPullRequests points the open PR of every rewired child at its new
// base so GitHub's diff matches the stack again.
func retargetPullRequests(ctx *runtime.Context, branchNames []string) {
	if ctx.GitHub == nil {
		return
	}
	for _, branchName := range branchNames {
		newParent, err := ctx.Engine.GetParent(branchName)
		if err != nil {
			continue
		}
		pr, err := ctx.GitHub.GetPullRequestByBranch(ctx.Context, branchName)
		if err != nil || pr == nil || !pr.IsOpen() || pr.Base == newParent {
			continue
		}
		if err := ctx.GitHub.UpdatePullRequest(ctx.Context, pr.Number, github.UpdatePROptions{Base: &newParent}); err != nil {
			ctx.Splog.Warn("Could not retarget PR #%d for %s onto %s: %v", pr.Number, branchName, newParent, err)
			continue
		}
		ctx.Splog.Info("Retargeted PR #%d for %s onto %s.",
			pr.Number, output.ColorBranchName(branchName, false), output.ColorBranchName(newParent, false))
	}
}
