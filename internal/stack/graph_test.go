package stack_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/stack"
)

// buildGraph tracks branches in order, parent first.
func buildGraph(t *testing.T, trunk string, branches [][2]string) *stack.Graph {
	t.Helper()
	g := stack.NewGraph(trunk)
	for _, pair := range branches {
		require.NoError(t, g.Add(pair[0], pair[1], "anchor-"+pair[1]))
	}
	return g
}

func TestGraphAdd(t *testing.T) {
	t.Run("tracks branch under trunk", func(t *testing.T) {
		g := stack.NewGraph("main")
		err := g.Add("feature", "main", "abc123")
		require.NoError(t, err)

		require.True(t, g.Has("feature"))
		node := g.Node("feature")
		require.Equal(t, "main", node.Parent)
		require.Equal(t, "abc123", node.Anchor)
		require.False(t, node.CreatedAt.IsZero())
	})

	t.Run("tracks branch under another branch", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{
			{"feature-1", "main"},
			{"feature-2", "feature-1"},
		})

		require.Equal(t, "feature-1", g.Node("feature-2").Parent)
		require.Equal(t, []string{"feature-2"}, g.Children("feature-1"))
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{{"feature", "main"}})

		err := g.Add("feature", "main", "def456")
		require.ErrorIs(t, err, stackerrors.ErrDuplicateBranch)
	})

	t.Run("rejects trunk as branch name", func(t *testing.T) {
		g := stack.NewGraph("main")
		err := g.Add("main", "main", "")
		require.ErrorIs(t, err, stackerrors.ErrDuplicateBranch)
	})

	t.Run("rejects untracked parent", func(t *testing.T) {
		g := stack.NewGraph("main")
		err := g.Add("feature", "nowhere", "")
		require.ErrorIs(t, err, stackerrors.ErrUnknownParent)
	})
}

func TestGraphReparent(t *testing.T) {
	t.Run("moves branch and resets anchor", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{
			{"a", "main"},
			{"a1", "a"},
			{"a2", "a1"},
		})

		err := g.Reparent("a1", "main", "tip-of-main")
		require.NoError(t, err)

		// Only a1's edge changed.
		require.Equal(t, "main", g.Node("a1").Parent)
		require.Equal(t, "tip-of-main", g.Node("a1").Anchor)
		require.Equal(t, "main", g.Node("a").Parent)
		require.Equal(t, "a1", g.Node("a2").Parent)
	})

	t.Run("rejects every descendant as new parent", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{
			{"b", "main"},
			{"b1", "b"},
			{"b2", "b1"},
			{"b3", "b1"},
		})

		for _, descendant := range g.Descendants("b") {
			err := g.Reparent("b", descendant, "")
			require.ErrorIs(t, err, stackerrors.ErrWouldCreateCycle, "mounting b onto %s must fail", descendant)
		}

		// A sibling subtree is fine.
		require.NoError(t, g.Add("c", "main", ""))
		require.NoError(t, g.Reparent("b", "c", "tip-of-c"))
		require.Equal(t, "c", g.Node("b").Parent)
	})

	t.Run("rejects self as parent", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{{"b", "main"}})
		err := g.Reparent("b", "b", "")
		require.ErrorIs(t, err, stackerrors.ErrWouldCreateCycle)
	})

	t.Run("rejects untracked branch", func(t *testing.T) {
		g := stack.NewGraph("main")
		err := g.Reparent("ghost", "main", "")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
	})

	t.Run("rejects untracked parent", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{{"b", "main"}})
		err := g.Reparent("b", "nowhere", "")
		require.ErrorIs(t, err, stackerrors.ErrUnknownParent)
	})

	t.Run("rejects trunk", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{{"b", "main"}})
		err := g.Reparent("main", "b", "")
		require.ErrorIs(t, err, stackerrors.ErrTrunkOperation)
	})
}

func TestGraphRemove(t *testing.T) {
	t.Run("rewires children onto removed node's parent", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{
			{"a", "main"},
			{"a1", "a"},
			{"a2", "a1"},
		})

		rewired, err := g.Remove("a1")
		require.NoError(t, err)
		require.Equal(t, []string{"a2"}, rewired)

		require.False(t, g.Has("a1"))
		require.Equal(t, "a", g.Node("a2").Parent)
		require.Empty(t, g.Node("a2").Anchor, "rewired child anchor must be cleared")

		// No node may still reference the removed name.
		for _, name := range g.Names() {
			require.NotEqual(t, "a1", g.Node(name).Parent)
		}
	})

	t.Run("rewires multiple children", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{
			{"base", "main"},
			{"left", "base"},
			{"right", "base"},
		})

		rewired, err := g.Remove("base")
		require.NoError(t, err)
		require.Equal(t, []string{"left", "right"}, rewired)
		require.Equal(t, "main", g.Node("left").Parent)
		require.Equal(t, "main", g.Node("right").Parent)
	})

	t.Run("refuses trunk", func(t *testing.T) {
		g := stack.NewGraph("main")
		_, err := g.Remove("main")
		require.ErrorIs(t, err, stackerrors.ErrTrunkOperation)
	})

	t.Run("rejects untracked branch", func(t *testing.T) {
		g := stack.NewGraph("main")
		_, err := g.Remove("ghost")
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
	})
}

func TestGraphQueries(t *testing.T) {
	g := buildGraph(t, "main", [][2]string{
		{"a", "main"},
		{"a1", "a"},
		{"a2", "a1"},
		{"b", "main"},
		{"b1", "b"},
		{"b2", "b"},
	})

	t.Run("children are sorted", func(t *testing.T) {
		require.Equal(t, []string{"a", "b"}, g.Children("main"))
		require.Equal(t, []string{"b1", "b2"}, g.Children("b"))
		require.Empty(t, g.Children("a2"))
	})

	t.Run("ancestors walk to trunk exclusive", func(t *testing.T) {
		require.Equal(t, []string{"a1", "a"}, g.Ancestors("a2"))
		require.Equal(t, []string{"a"}, g.Ancestors("a1"))
		require.Empty(t, g.Ancestors("a"))
	})

	t.Run("descendants cover the whole subtree", func(t *testing.T) {
		require.ElementsMatch(t, []string{"a1", "a2"}, g.Descendants("a"))
		require.ElementsMatch(t, []string{"b1", "b2"}, g.Descendants("b"))
		require.ElementsMatch(t, []string{"a", "a1", "a2", "b", "b1", "b2"}, g.Descendants("main"))
	})
}

func TestGraphTopologicalOrder(t *testing.T) {
	t.Run("every branch comes after its parent", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{
			{"a", "main"},
			{"a1", "a"},
			{"a2", "a1"},
			{"a3", "a1"},
			{"b", "main"},
		})

		order := g.TopologicalOrder("a")
		require.Len(t, order, 4)
		require.Equal(t, "a", order[0])
		require.NotContains(t, order, "b")

		position := make(map[string]int, len(order))
		for i, name := range order {
			position[name] = i
		}

		for _, name := range order[1:] {
			parent := g.Node(name).Parent
			require.Less(t, position[parent], position[name], "%s must come after its parent %s", name, parent)
		}
	})

	t.Run("single branch", func(t *testing.T) {
		g := buildGraph(t, "main", [][2]string{{"solo", "main"}})
		require.Equal(t, []string{"solo"}, g.TopologicalOrder("solo"))
	})
}

func TestGraphInvariantsAfterMutationSequence(t *testing.T) {
	// Any sequence of individually successful mutations must leave the graph
	// validating cleanly.
	g := stack.NewGraph("main")
	require.NoError(t, g.Add("a", "main", "s1"))
	require.NoError(t, g.Add("b", "a", "s2"))
	require.NoError(t, g.Add("c", "b", "s3"))
	require.NoError(t, g.Add("d", "main", "s4"))
	require.NoError(t, g.Validate())

	require.NoError(t, g.Reparent("c", "d", "s5"))
	require.NoError(t, g.Validate())

	_, err := g.Remove("b")
	require.NoError(t, err)
	require.NoError(t, g.Validate())

	require.Error(t, g.Reparent("d", "c", ""))
	require.NoError(t, g.Validate(), "failed mutation must not corrupt the graph")

	require.Equal(t, []string{"a", "c", "d"}, g.Names())
}

func TestGraphSetAnchor(t *testing.T) {
	g := buildGraph(t, "main", [][2]string{{"a", "main"}})

	require.NoError(t, g.SetAnchor("a", "newtip"))
	require.Equal(t, "newtip", g.Node("a").Anchor)

	err := g.SetAnchor("ghost", "x")
	require.ErrorIs(t, err, stackerrors.ErrNotFound)
}
