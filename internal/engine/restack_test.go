package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/stack"
)

// featStack is trunk main with a single branch feat whose commits sit on the
// anchor m1. The parent has since moved to m2, so feat needs a restack.
func featStack(t *testing.T) (*stack.Graph, *fakeRunner) {
	t.Helper()
	graph := stack.NewGraph("main")
	mustAdd(t, graph, "feat", "main", "m1")

	runner := newFakeRunner()
	runner.addBranch("main", "m2")
	runner.addBranch("feat", "f1")
	runner.setAncestor("m1", "m2")
	runner.setAncestor("m1", "f1")
	return graph, runner
}

func TestRestackBranch(t *testing.T) {
	t.Run("rebases onto the parent tip from the anchor", func(t *testing.T) {
		graph, runner := featStack(t)
		eng, store := newTestEngine(t, graph, runner)

		result, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.Equal(t, RestackDone, result.Result)
		require.Equal(t, "m2", result.RebasedBase)
		require.False(t, result.BaseRecomputed)
		require.Equal(t, []rebaseCall{{branch: "feat", onto: "m2", from: "m1"}}, runner.rebaseCalls)

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m2", anchor)

		// Progress is on disk before the next branch would run.
		saved, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "m2", saved.Node("feat").Anchor)
	})

	t.Run("second run is a no-op", func(t *testing.T) {
		graph, runner := featStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)

		// The rebase rewrote feat's tip on top of m2.
		runner.addBranch("feat", "f2")
		runner.setAncestor("m2", "f2")

		result, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.Equal(t, RestackUnneeded, result.Result)
		require.False(t, result.AnchorAdvanced)
		require.Len(t, runner.rebaseCalls, 1)
	})

	t.Run("branch with no commits only advances its anchor", func(t *testing.T) {
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "feat", "main", "m1")

		runner := newFakeRunner()
		runner.addBranch("main", "m2")
		runner.addBranch("feat", "m1")
		runner.setAncestor("m1", "m2")

		eng, store := newTestEngine(t, graph, runner)

		result, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.Equal(t, RestackUnneeded, result.Result)
		require.True(t, result.AnchorAdvanced)
		require.Empty(t, runner.rebaseCalls)

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m2", anchor)

		saved, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "m2", saved.Node("feat").Anchor)
	})

	t.Run("rewritten parent falls back to the merge base", func(t *testing.T) {
		graph, runner := featStack(t)
		// m1 is no longer part of main's history.
		delete(runner.ancestors, "m1 m2")
		runner.mergeBase["main feat"] = "mb"
		eng, _ := newTestEngine(t, graph, runner)

		result, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.Equal(t, RestackDone, result.Result)
		require.True(t, result.BaseRecomputed)
		require.Equal(t, []rebaseCall{{branch: "feat", onto: "m2", from: "mb"}}, runner.rebaseCalls)
	})

	t.Run("cleared anchor recomputes the base quietly", func(t *testing.T) {
		graph, runner := featStack(t)
		require.NoError(t, graph.SetAnchor("feat", ""))
		runner.mergeBase["main feat"] = "mb"
		eng, _ := newTestEngine(t, graph, runner)

		result, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.Equal(t, RestackDone, result.Result)
		require.False(t, result.BaseRecomputed)
		require.Equal(t, []rebaseCall{{branch: "feat", onto: "m2", from: "mb"}}, runner.rebaseCalls)
	})

	t.Run("conflict pauses without touching the anchor", func(t *testing.T) {
		graph, runner := featStack(t)
		runner.rebaseResult = git.RebaseConflict
		eng, _ := newTestEngine(t, graph, runner)

		result, err := eng.RestackBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.Equal(t, RestackConflict, result.Result)
		require.Equal(t, "m2", result.RebasedBase)

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m1", anchor)
	})

	t.Run("trunk is refused", func(t *testing.T) {
		graph, runner := featStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.RestackBranch(context.Background(), "main")
		require.ErrorIs(t, err, stackerrors.ErrTrunkOperation)
	})

	t.Run("untracked branch", func(t *testing.T) {
		graph, runner := featStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.RestackBranch(context.Background(), "nope")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
	})

	t.Run("tracked branch gone from git", func(t *testing.T) {
		graph, runner := featStack(t)
		delete(runner.branches, "feat")
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.RestackBranch(context.Background(), "feat")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
		require.ErrorContains(t, err, "no longer exists")
	})
}

func TestContinueRebase(t *testing.T) {
	t.Run("records the base once git finishes", func(t *testing.T) {
		graph, runner := featStack(t)
		runner.rebaseInProgress = true
		runner.continueResult = git.RebaseDone
		eng, store := newTestEngine(t, graph, runner)

		result, err := eng.ContinueRebase(context.Background(), "feat", "m2")
		require.NoError(t, err)
		require.Equal(t, RestackDone, result.Result)
		require.Equal(t, "feat", result.BranchName)

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m2", anchor)

		saved, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "m2", saved.Node("feat").Anchor)
	})

	t.Run("still conflicted", func(t *testing.T) {
		graph, runner := featStack(t)
		runner.rebaseInProgress = true
		runner.continueResult = git.RebaseConflict
		eng, _ := newTestEngine(t, graph, runner)

		result, err := eng.ContinueRebase(context.Background(), "feat", "m2")
		require.NoError(t, err)
		require.Equal(t, RestackConflict, result.Result)

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m1", anchor)
	})

	t.Run("requires an in-progress rebase", func(t *testing.T) {
		graph, runner := featStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.ContinueRebase(context.Background(), "feat", "m2")
		require.ErrorIs(t, err, stackerrors.ErrRebaseNotInProgress)
	})
}
