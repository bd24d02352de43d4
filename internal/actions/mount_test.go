package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestMount(t *testing.T) {
	t.Run("moves a branch onto a new parent without touching commits", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a":  "main",
				"a1": "a",
				"a2": "a1",
			})

		tip := s.Tip("a1")
		err := actions.MountAction(s.Context, actions.MountOptions{
			BranchName: "a1",
			NewParent:  "main",
		})
		require.NoError(t, err)

		// Only the edge moved; a keeps its place and a2 stays under a1.
		s.ExpectStackStructure(map[string]string{
			"a":  "main",
			"a1": "main",
			"a2": "a1",
		})
		require.Equal(t, tip, s.Tip("a1"), "mount must not rewrite history")
		require.Equal(t, s.Tip("main"), s.Anchor("a1"))
	})

	t.Run("rejects mounting onto a descendant", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a": "main",
				"b": "a",
				"c": "b",
			})

		err := actions.MountAction(s.Context, actions.MountOptions{
			BranchName: "a",
			NewParent:  "c",
		})
		require.Error(t, err)
		require.ErrorIs(t, err, stackerrors.ErrWouldCreateCycle)

		// Nothing changed.
		s.ExpectStackStructure(map[string]string{
			"a": "main",
			"b": "a",
			"c": "b",
		})
	})

	t.Run("rejects mounting onto itself", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"})

		err := actions.MountAction(s.Context, actions.MountOptions{
			BranchName: "a",
			NewParent:  "a",
		})
		require.Error(t, err)
	})

	t.Run("rejects an untracked parent", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"})
		require.NoError(t, s.Scene.Repo.CreateBranch("loose"))

		err := actions.MountAction(s.Context, actions.MountOptions{
			BranchName: "a",
			NewParent:  "loose",
		})
		require.Error(t, err)
		require.ErrorIs(t, err, stackerrors.ErrUnknownParent)
	})

	t.Run("tracks an untracked branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			Checkout("main")
		require.NoError(t, s.Scene.Repo.CreateAndCheckoutBranch("adopted"))
		s.CommitChange("adopted", "work on adopted")

		err := actions.MountAction(s.Context, actions.MountOptions{
			BranchName: "adopted",
			NewParent:  "a",
		})
		require.NoError(t, err)

		s.ExpectTracked("adopted", true).
			ExpectStackStructure(map[string]string{"adopted": "a"})
		require.Equal(t, s.Tip("a"), s.Anchor("adopted"))
	})

	t.Run("refuses the trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"})

		err := actions.MountAction(s.Context, actions.MountOptions{
			BranchName: "main",
			NewParent:  "a",
		})
		require.Error(t, err)
	})
}
