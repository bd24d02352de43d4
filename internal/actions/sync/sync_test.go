package sync_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	syncaction "gitstack.dev/gitstack/internal/actions/sync"
	"gitstack.dev/gitstack/testhelpers"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestSync(t *testing.T) {
	t.Run("fast-forwards the trunk to the remote", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithRemote().
			CommitChangeOn("main", "remote", "remote work")

		// Publish the new commit, then wind the local trunk back so it is
		// strictly behind the remote.
		require.NoError(t, s.Scene.Repo.ForcePushBranch("origin", "main"))
		require.NoError(t, s.Scene.Repo.RunGitCommand("reset", "--hard", "HEAD~1"))
		behindTip := s.Tip("main")

		err := syncaction.Action(s.Context, syncaction.Options{})
		require.NoError(t, err)
		require.NotEqual(t, behindTip, s.Tip("main"))
	})

	t.Run("leaves a trunk the remote cannot fast-forward alone", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithRemote().
			CommitChangeOn("main", "local", "local only work")
		localTip := s.Tip("main")

		err := syncaction.Action(s.Context, syncaction.Options{})
		require.NoError(t, err)
		require.Equal(t, localTip, s.Tip("main"), "local trunk commits must survive a plain sync")
	})

	t.Run("prunes a branch merged into the trunk", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a": "main",
				"b": "a",
			}).
			WithRemote()

		// a's work lands on the trunk; b is still in flight.
		require.NoError(t, s.Scene.Repo.MergeBranch("main", "a"))
		require.NoError(t, s.Scene.Repo.ForcePushBranch("origin", "main"))

		err := syncaction.Action(s.Context, syncaction.Options{Force: true})
		require.NoError(t, err)

		s.ExpectTracked("a", false).
			ExpectTracked("b", true).
			ExpectStackStructure(map[string]string{"b": "main"})
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main", "b"})
	})

	t.Run("prunes a tracked branch whose git ref is gone", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			WithRemote().
			Checkout("main")
		require.NoError(t, s.Scene.Repo.DeleteBranch("a"))

		err := syncaction.Action(s.Context, syncaction.Options{Force: true})
		require.NoError(t, err)
		s.Reload()
		s.ExpectTracked("a", false)
	})

	t.Run("without force only reports prunable branches", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"a": "main"}).
			WithRemote()
		require.NoError(t, s.Scene.Repo.MergeBranch("main", "a"))

		err := syncaction.Action(s.Context, syncaction.Options{})
		require.NoError(t, err)
		s.ExpectTracked("a", true)
		testhelpers.ExpectBranches(t, s.Scene.Repo, []string{"main", "a"})
	})

	t.Run("restacks what is left with the flag", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a": "main",
				"b": "a",
			}).
			WithRemote()

		require.NoError(t, s.Scene.Repo.MergeBranch("main", "a"))
		require.NoError(t, s.Scene.Repo.ForcePushBranch("origin", "main"))

		err := syncaction.Action(s.Context, syncaction.Options{Force: true, Restack: true})
		require.NoError(t, err)

		s.ExpectTracked("a", false).
			ExpectAncestor("main", "b").
			ExpectRestacked("b")
	})

	t.Run("refuses a dirty working tree", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithRemote().
			WithUncommittedChange("dirty")

		err := syncaction.Action(s.Context, syncaction.Options{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "uncommitted")
	})

	t.Run("requires a remote", func(t *testing.T) {
		s := scenario.NewScenario(t, nil)

		err := syncaction.Action(s.Context, syncaction.Options{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "remote")
	})
}
