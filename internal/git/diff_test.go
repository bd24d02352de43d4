package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/testhelpers"
)

func TestIsDiffEmpty(t *testing.T) {
	t.Run("returns true when branch equals base", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		mainRev, err := scene.Repo.GetRef("main")
		require.NoError(t, err)

		empty, err := git.IsDiffEmpty("main", mainRev)
		require.NoError(t, err)
		require.True(t, empty)
	})

	t.Run("returns false when branch has changes", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		mainRev, err := scene.Repo.GetRef("main")
		require.NoError(t, err)

		err = scene.Repo.CreateAndCheckoutBranch("branch1")
		require.NoError(t, err)
		err = scene.Repo.CreateChangeAndCommit("branch1 change", "b1")
		require.NoError(t, err)

		empty, err := git.IsDiffEmpty("branch1", mainRev)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("returns true for branch with no commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		mainRev, err := scene.Repo.GetRef("main")
		require.NoError(t, err)

		// Branch off main without committing anything.
		err = scene.Repo.CreateAndCheckoutBranch("branch1")
		require.NoError(t, err)
		err = scene.Repo.CheckoutBranch("main")
		require.NoError(t, err)

		empty, err := git.IsDiffEmpty("branch1", mainRev)
		require.NoError(t, err)
		require.True(t, empty)
	})
}

func TestGetUnmergedFiles(t *testing.T) {
	t.Run("returns empty list when no conflicts", func(t *testing.T) {
		_ = testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		files, err := git.GetUnmergedFiles(context.Background())
		require.NoError(t, err)
		require.Empty(t, files)
	})

	t.Run("returns unmerged files during conflict", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "test")
		})

		// Both branches modify the same file.
		err := scene.Repo.CreateAndCheckoutBranch("branch1")
		require.NoError(t, err)
		err = scene.Repo.CreateChangeAndCommit("branch1 change", "test")
		require.NoError(t, err)

		err = scene.Repo.CheckoutBranch("main")
		require.NoError(t, err)
		err = scene.Repo.CreateChangeAndCommit("main conflicting", "test")
		require.NoError(t, err)

		mainRev, err := scene.Repo.GetRef("main")
		require.NoError(t, err)
		result, err := git.Rebase(context.Background(), "branch1", "main", mainRev)
		require.NoError(t, err)
		require.Equal(t, git.RebaseConflict, result)

		files, err := git.GetUnmergedFiles(context.Background())
		require.NoError(t, err)
		require.NotEmpty(t, files)
		require.Contains(t, files, "test_test.txt")
	})
}
