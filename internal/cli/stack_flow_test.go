package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/testhelpers"
)

// newCliRepo builds an initialized repository the test binary runs against.
func newCliRepo(t *testing.T) *testhelpers.GitRepo {
	t.Helper()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)

	// Keep the repo out of $HOME so the CLI's ~/.gitstack logs and config
	// do not show up as untracked files in the work tree.
	repo, err := testhelpers.NewGitRepo(filepath.Join(tmpDir, "repo"))
	require.NoError(t, err)
	require.NoError(t, repo.CreateChangeAndCommit("initial", "init"))
	require.NoError(t, repo.RunCliCommand("init", "--trunk", "main"))
	return repo
}

func TestCliStackFlow(t *testing.T) {
	t.Run("create builds a stack and log shows it", func(t *testing.T) {
		repo := newCliRepo(t)

		require.NoError(t, repo.RunCliCommand("create", "a"))
		require.NoError(t, repo.CreateChangeAndCommit("work on a", "a"))
		require.NoError(t, repo.RunCliCommand("create", "b"))
		require.NoError(t, repo.CreateChangeAndCommit("work on b", "b"))

		current, err := repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "b", current)

		out, err := repo.RunCliCommandAndGetOutput("log", "--short")
		require.NoError(t, err)
		require.Contains(t, out, "a")
		require.Contains(t, out, "b")
		require.Contains(t, out, "main")
	})

	t.Run("restack follows a moved trunk", func(t *testing.T) {
		repo := newCliRepo(t)

		require.NoError(t, repo.RunCliCommand("create", "a"))
		require.NoError(t, repo.CreateChangeAndCommit("work on a", "a"))
		require.NoError(t, repo.RunCliCommand("create", "b"))
		require.NoError(t, repo.CreateChangeAndCommit("work on b", "b"))

		require.NoError(t, repo.CheckoutBranch("main"))
		require.NoError(t, repo.CreateChangeAndCommit("trunk moves on", "trunk"))

		require.NoError(t, repo.RunCliCommand("restack", "--branch", "a"))

		onA, err := repo.IsAncestor("main", "a")
		require.NoError(t, err)
		require.True(t, onA)
		onB, err := repo.IsAncestor("a", "b")
		require.NoError(t, err)
		require.True(t, onB)
	})

	t.Run("mount then delete reshapes the stack", func(t *testing.T) {
		repo := newCliRepo(t)

		require.NoError(t, repo.RunCliCommand("create", "a"))
		require.NoError(t, repo.CreateChangeAndCommit("work on a", "a"))
		require.NoError(t, repo.RunCliCommand("create", "b"))
		require.NoError(t, repo.CreateChangeAndCommit("work on b", "b"))

		// Move b directly onto the trunk, then drop a.
		require.NoError(t, repo.RunCliCommand("mount", "main", "--branch", "b"))
		require.NoError(t, repo.RunCliCommand("delete", "a", "--force"))

		testhelpers.ExpectBranches(t, repo, []string{"main", "b"})
	})

	t.Run("checkout creates a tracked branch", func(t *testing.T) {
		repo := newCliRepo(t)

		require.NoError(t, repo.RunCliCommand("checkout", "feat"))
		current, err := repo.CurrentBranchName()
		require.NoError(t, err)
		require.Equal(t, "feat", current)
	})

	t.Run("commands refuse to run before init", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("HOME", tmpDir)
		repo, err := testhelpers.NewGitRepo(tmpDir)
		require.NoError(t, err)
		require.NoError(t, repo.CreateChangeAndCommit("initial", "init"))

		_, err = repo.RunCliCommandAndGetOutput("create", "a")
		require.Error(t, err)
	})

	t.Run("status runs on a fresh stack", func(t *testing.T) {
		repo := newCliRepo(t)
		require.NoError(t, repo.RunCliCommand("create", "a"))
		require.NoError(t, repo.CreateChangeAndCommit("work on a", "a"))

		out, err := repo.RunCliCommandAndGetOutput("status")
		require.NoError(t, err)
		require.Contains(t, out, "a")
	})
}
