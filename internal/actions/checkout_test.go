package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestCheckout(t *testing.T) {
	t.Run("switches to an existing branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a": "main",
				"b": "a",
			}).
			Checkout("main")

		err := actions.CheckoutAction(s.Context, actions.CheckoutOptions{BranchName: "b"})
		require.NoError(t, err)
		s.ExpectBranch("b")
	})

	t.Run("creates and tracks a new name", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			Checkout("a")

		err := actions.CheckoutAction(s.Context, actions.CheckoutOptions{BranchName: "a1"})
		require.NoError(t, err)

		s.ExpectBranch("a1").
			ExpectTracked("a1", true).
			ExpectStackStructure(map[string]string{"a1": "a"})
		require.Equal(t, s.Tip("a"), s.Anchor("a1"))
	})

	t.Run("surfaces a tracked branch whose git ref is gone", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			Checkout("main")
		require.NoError(t, s.Scene.Repo.DeleteBranch("a"))

		err := actions.CheckoutAction(s.Context, actions.CheckoutOptions{BranchName: "a"})
		require.Error(t, err)
		require.ErrorIs(t, err, stackerrors.ErrNotFound)
	})

	t.Run("is a no-op on the current branch", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			Checkout("a")

		err := actions.CheckoutAction(s.Context, actions.CheckoutOptions{BranchName: "a"})
		require.NoError(t, err)
		s.ExpectBranch("a")
	})

	t.Run("switches to an untracked branch without tracking it", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			Checkout("main")
		require.NoError(t, s.Scene.Repo.CreateBranch("loose"))

		err := actions.CheckoutAction(s.Context, actions.CheckoutOptions{BranchName: "loose"})
		require.NoError(t, err)
		s.ExpectBranch("loose").
			ExpectTracked("loose", false)
	})
}

func TestCreate(t *testing.T) {
	t.Run("creates a branch stacked on the current one", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			Checkout("a")

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "a1"})
		require.NoError(t, err)

		s.ExpectBranch("a1").
			ExpectStackStructure(map[string]string{"a1": "a"})
	})

	t.Run("rejects an existing name", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"})

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "a"})
		require.Error(t, err)
		require.ErrorIs(t, err, stackerrors.ErrDuplicateBranch)
	})

	t.Run("refuses a dirty working tree", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithUncommittedChange("dirty")

		err := actions.CreateAction(s.Context, actions.CreateOptions{BranchName: "feat"})
		require.Error(t, err)
		require.ErrorIs(t, err, stackerrors.ErrDirtyWorkingTree)
	})
}
