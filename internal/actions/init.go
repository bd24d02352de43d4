package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/stack"
)

// InitOptions contains options for the init command
type InitOptions struct {
	// Trunk overrides trunk detection.
	Trunk string
}

// InitAction configures git-stack for this repository: it picks (or accepts)
// the trunk branch and writes the repo config. Re-running with --trunk
// re-roots existing stacks on the new trunk.
func InitAction(ctx *runtime.Context, opts InitOptions) error {
	initialized := config.IsInitialized(ctx.GitDir)
	if initialized && opts.Trunk == "" {
		trunk, err := config.GetTrunk(ctx.GitDir)
		if err != nil {
			return err
		}
		ctx.Splog.Info("git-stack is already initialized; the trunk is %s.", output.ColorBranchName(trunk, false))
		ctx.Splog.Tip("Pass %s to change the trunk.", output.ColorCyan("--trunk <branch>"))
		return nil
	}

	trunk := opts.Trunk
	if trunk == "" {
		trunk = detectTrunk(ctx)
	}
	exists, err := git.BranchExists(trunk)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("branch %s does not exist; pass --trunk with a branch that does", trunk)
	}

	if initialized {
		previous, err := config.GetTrunk(ctx.GitDir)
		if err != nil {
			return err
		}
		if previous != trunk {
			if err := rerootState(ctx, previous, trunk); err != nil {
				return err
			}
		}
	}

	if err := config.SetTrunk(ctx.GitDir, trunk); err != nil {
		return err
	}
	ctx.Splog.Info("Initialized git-stack with trunk %s.", output.ColorBranchName(trunk, false))
	ctx.Splog.Tip("Run %s to start a stack.", output.ColorCyan("git-stack create <name>"))
	return nil
}

// rerootState moves tracked branches from the old trunk onto the new one.
// The state file records its own trunk, so changing the config alone would
// leave the graph rooted on the old branch.
func rerootState(ctx *runtime.Context, previousTrunk, newTrunk string) error {
	store := stack.NewStore(ctx.GitDir, previousTrunk)
	graph, err := store.Load()
	if err != nil {
		return err
	}
	if err := graph.RenameTrunk(newTrunk); err != nil {
		return fmt.Errorf("cannot make %s the trunk: %w", newTrunk, err)
	}
	if err := store.Save(graph); err != nil {
		return err
	}
	if graph.Len() > 0 {
		ctx.Splog.Warn("Re-rooted %d tracked %s on %s. Bases are recomputed on the next restack.",
			graph.Len(), pluralize("branch", graph.Len()), newTrunk)
	}
	return nil
}

// detectTrunk picks the trunk the way the rest of the ecosystem does: the
// remote's HEAD branch, then the global config, then main/master, then
// whatever is checked out.
func detectTrunk(ctx *runtime.Context) string {
	remote := ResolveRemote(ctx)
	if remote != "" {
		if head, err := git.GetRemoteHead(remote); err == nil && head != "" {
			return head
		}
	}
	if trunk := config.GlobalTrunkDefault(); trunk != "" {
		if exists, err := git.BranchExists(trunk); err == nil && exists {
			return trunk
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if exists, err := git.BranchExists(candidate); err == nil && exists {
			return candidate
		}
	}
	if current, err := git.GetCurrentBranch(); err == nil && current != "" {
		return current
	}
	return "main"
}
