package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/testhelpers"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestDelete(t *testing.T) {
	t.Run("rewires children onto the deleted branch's parent", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a":  "main",
				"a1": "a",
				"a2": "a1",
			})

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{
			BranchName: "a1",
			Force:      true,
		})
		require.NoError(t, err)

		s.ExpectTracked("a1", false).
			ExpectStackStructure(map[string]string{
				"a":  "main",
				"a2": "a",
			})

		// The rewired child's base is cleared so the next restack recomputes
		// the range instead of trusting a commit that may be rewritten away.
		require.Empty(t, s.Anchor("a2"))
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main", "a", "a2"})
	})

	t.Run("keep untracks without deleting the git branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"})

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{
			BranchName: "feat",
			Keep:       true,
		})
		require.NoError(t, err)

		s.ExpectTracked("feat", false)
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main", "feat"})
	})

	t.Run("refuses the trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"})

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{
			BranchName: "main",
			Force:      true,
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), "trunk")
	})

	t.Run("refuses unmerged work without force in a non-interactive run", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"})

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{BranchName: "feat"})
		require.Error(t, err)
		s.ExpectTracked("feat", true)
	})

	t.Run("moves off the branch before deleting it", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"}).
			Checkout("feat")

		err := actions.DeleteAction(s.Context, actions.DeleteOptions{
			BranchName: "feat",
			Force:      true,
		})
		require.NoError(t, err)

		s.ExpectBranch("main")
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main"})
	})
}
