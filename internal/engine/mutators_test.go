package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/stack"
)

func TestCreateBranch(t *testing.T) {
	t.Run("tracks under the current branch", func(t *testing.T) {
		graph := stack.NewGraph("main")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.current = "main"
		eng, store := newTestEngine(t, graph, runner)

		require.NoError(t, eng.CreateBranch(context.Background(), "feat"))
		require.Equal(t, []string{"feat"}, runner.created)
		require.True(t, eng.IsBranchTracked("feat"))

		parent, err := eng.GetParent("feat")
		require.NoError(t, err)
		require.Equal(t, "main", parent)

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m1", anchor)

		saved, err := store.Load()
		require.NoError(t, err)
		require.True(t, saved.Has("feat"))
	})

	t.Run("stacks on a tracked branch", func(t *testing.T) {
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "feat", "main", "m1")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("feat", "f1")
		runner.current = "feat"
		eng, _ := newTestEngine(t, graph, runner)

		require.NoError(t, eng.CreateBranch(context.Background(), "feat-2"))

		parent, err := eng.GetParent("feat-2")
		require.NoError(t, err)
		require.Equal(t, "feat", parent)

		anchor, err := eng.GetAnchor("feat-2")
		require.NoError(t, err)
		require.Equal(t, "f1", anchor)
	})

	t.Run("rejects a tracked name", func(t *testing.T) {
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "feat", "main", "m1")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("feat", "f1")
		runner.current = "main"
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.CreateBranch(context.Background(), "feat")
		require.ErrorIs(t, err, stackerrors.ErrDuplicateBranch)
	})

	t.Run("rejects an existing git branch", func(t *testing.T) {
		graph := stack.NewGraph("main")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("loose", "l1")
		runner.current = "main"
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.CreateBranch(context.Background(), "loose")
		require.ErrorIs(t, err, stackerrors.ErrDuplicateBranch)
		require.Empty(t, runner.created)
	})

	t.Run("refuses an untracked current branch", func(t *testing.T) {
		graph := stack.NewGraph("main")
		runner := newFakeRunner()
		runner.addBranch("wild", "w1")
		runner.current = "wild"
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.CreateBranch(context.Background(), "feat")
		require.ErrorIs(t, err, stackerrors.ErrUnknownParent)
		require.Empty(t, runner.created)
	})
}

func TestCheckoutBranch(t *testing.T) {
	t.Run("switches to a tracked branch", func(t *testing.T) {
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "feat", "main", "m1")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("feat", "f1")
		runner.current = "main"
		eng, _ := newTestEngine(t, graph, runner)

		created, err := eng.CheckoutBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, []string{"feat"}, runner.checkouts)
	})

	t.Run("creates and tracks an unknown name", func(t *testing.T) {
		graph := stack.NewGraph("main")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.current = "main"
		eng, _ := newTestEngine(t, graph, runner)

		created, err := eng.CheckoutBranch(context.Background(), "feat")
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, []string{"feat"}, runner.created)
		require.True(t, eng.IsBranchTracked("feat"))

		anchor, err := eng.GetAnchor("feat")
		require.NoError(t, err)
		require.Equal(t, "m1", anchor)
	})

	t.Run("switches to an untracked branch without tracking it", func(t *testing.T) {
		graph := stack.NewGraph("main")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("loose", "l1")
		runner.current = "main"
		eng, _ := newTestEngine(t, graph, runner)

		created, err := eng.CheckoutBranch(context.Background(), "loose")
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, []string{"loose"}, runner.checkouts)
		require.False(t, eng.IsBranchTracked("loose"))
	})

	t.Run("surfaces stale metadata", func(t *testing.T) {
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "gone", "main", "m1")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.current = "main"
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.CheckoutBranch(context.Background(), "gone")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
		require.ErrorContains(t, err, "no longer exists")
	})

	t.Run("trunk is a plain switch", func(t *testing.T) {
		graph := stack.NewGraph("main")
		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("feat", "f1")
		runner.current = "feat"
		eng, _ := newTestEngine(t, graph, runner)

		created, err := eng.CheckoutBranch(context.Background(), "main")
		require.NoError(t, err)
		require.False(t, created)
		require.Equal(t, []string{"main"}, runner.checkouts)
	})
}

func TestMountBranch(t *testing.T) {
	buildStack := func(t *testing.T) (*stack.Graph, *fakeRunner) {
		t.Helper()
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "a", "main", "m1")
		mustAdd(t, graph, "a1", "a", "s1")
		mustAdd(t, graph, "a2", "a1", "s2")

		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("a", "s1")
		runner.addBranch("a1", "s2")
		runner.addBranch("a2", "s3")
		runner.current = "main"
		return graph, runner
	}

	t.Run("reparents and records the new base", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, store := newTestEngine(t, graph, runner)

		require.NoError(t, eng.MountBranch(context.Background(), "a1", "main"))

		parent, err := eng.GetParent("a1")
		require.NoError(t, err)
		require.Equal(t, "main", parent)

		anchor, err := eng.GetAnchor("a1")
		require.NoError(t, err)
		require.Equal(t, "m1", anchor)

		// Siblings and children keep their edges.
		parent, err = eng.GetParent("a2")
		require.NoError(t, err)
		require.Equal(t, "a1", parent)
		parent, err = eng.GetParent("a")
		require.NoError(t, err)
		require.Equal(t, "main", parent)

		saved, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "main", saved.Node("a1").Parent)
	})

	t.Run("refuses a descendant parent", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.MountBranch(context.Background(), "a", "a2")
		require.ErrorIs(t, err, stackerrors.ErrWouldCreateCycle)
	})

	t.Run("tracks an untracked git branch", func(t *testing.T) {
		graph, runner := buildStack(t)
		runner.addBranch("loose", "l1")
		eng, _ := newTestEngine(t, graph, runner)

		require.NoError(t, eng.MountBranch(context.Background(), "loose", "a"))
		require.True(t, eng.IsBranchTracked("loose"))

		anchor, err := eng.GetAnchor("loose")
		require.NoError(t, err)
		require.Equal(t, "s1", anchor)
	})

	t.Run("unknown branch", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.MountBranch(context.Background(), "nope", "a")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
	})

	t.Run("unknown parent", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.MountBranch(context.Background(), "a1", "nope")
		require.ErrorIs(t, err, stackerrors.ErrUnknownParent)
	})

	t.Run("parent branch gone from git", func(t *testing.T) {
		graph, runner := buildStack(t)
		delete(runner.branches, "a")
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.MountBranch(context.Background(), "a1", "a")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
		require.ErrorContains(t, err, "no longer exists")
	})

	t.Run("trunk cannot be mounted", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		err := eng.MountBranch(context.Background(), "main", "a")
		require.ErrorIs(t, err, stackerrors.ErrTrunkOperation)
	})
}

func TestDeleteBranch(t *testing.T) {
	buildStack := func(t *testing.T) (*stack.Graph, *fakeRunner) {
		t.Helper()
		graph := stack.NewGraph("main")
		mustAdd(t, graph, "a", "main", "m1")
		mustAdd(t, graph, "a1", "a", "s1")
		mustAdd(t, graph, "a2", "a1", "s2")

		runner := newFakeRunner()
		runner.addBranch("main", "m1")
		runner.addBranch("a", "s1")
		runner.addBranch("a1", "s2")
		runner.addBranch("a2", "s3")
		runner.current = "main"
		return graph, runner
	}

	t.Run("rewires children and clears their base", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, store := newTestEngine(t, graph, runner)

		rewired, err := eng.DeleteBranch(context.Background(), "a1", false)
		require.NoError(t, err)
		require.Equal(t, []string{"a2"}, rewired)
		require.False(t, eng.IsBranchTracked("a1"))

		parent, err := eng.GetParent("a2")
		require.NoError(t, err)
		require.Equal(t, "a", parent)

		anchor, err := eng.GetAnchor("a2")
		require.NoError(t, err)
		require.Empty(t, anchor)

		// Untracked only; the git branch stays.
		require.Empty(t, runner.deleted)
		require.True(t, runner.branches["a1"])

		saved, err := store.Load()
		require.NoError(t, err)
		require.False(t, saved.Has("a1"))
	})

	t.Run("deletes the git branch on request", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.DeleteBranch(context.Background(), "a2", true)
		require.NoError(t, err)
		require.Equal(t, []string{"a2"}, runner.deleted)
	})

	t.Run("steps off the branch before deleting it", func(t *testing.T) {
		graph, runner := buildStack(t)
		runner.current = "a1"
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.DeleteBranch(context.Background(), "a1", true)
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, runner.checkouts)
		require.Equal(t, []string{"a1"}, runner.deleted)
	})

	t.Run("trunk is refused", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.DeleteBranch(context.Background(), "main", false)
		require.ErrorIs(t, err, stackerrors.ErrTrunkOperation)
	})

	t.Run("untracked branch", func(t *testing.T) {
		graph, runner := buildStack(t)
		eng, _ := newTestEngine(t, graph, runner)

		_, err := eng.DeleteBranch(context.Background(), "nope", false)
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
	})
}
