package git_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/testhelpers"
)

func TestGetCommitSubject(t *testing.T) {
	t.Run("returns the oldest commit subject for a branch with multiple commits", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		err := scene.Repo.CreateAndCheckoutBranch("feature")
		require.NoError(t, err)

		oldestSubject := "feat: first commit"
		err = scene.Repo.CreateChangeAndCommit(oldestSubject, "change1")
		require.NoError(t, err)

		err = scene.Repo.CreateChangeAndCommit("feat: second commit", "change2")
		require.NoError(t, err)

		subject, err := git.GetCommitSubject("feature", "main")
		require.NoError(t, err)
		require.Equal(t, oldestSubject, subject, "should return the oldest commit subject on the branch")
	})

	t.Run("returns the subject for a branch with a single commit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		err := scene.Repo.CreateAndCheckoutBranch("feature")
		require.NoError(t, err)

		subjectText := "feat: single commit"
		err = scene.Repo.CreateChangeAndCommit(subjectText, "change1")
		require.NoError(t, err)

		subject, err := git.GetCommitSubject("feature", "main")
		require.NoError(t, err)
		require.Equal(t, subjectText, subject)
	})

	t.Run("returns empty when the branch has no commits past the base", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		err := scene.Repo.CreateAndCheckoutBranch("feature")
		require.NoError(t, err)

		subject, err := git.GetCommitSubject("feature", "main")
		require.NoError(t, err)
		require.Empty(t, subject)
	})
}

func TestGetCommitMessages(t *testing.T) {
	t.Run("returns messages newest first, excluding the base", func(t *testing.T) {
		scene := testhelpers.NewScene(t, func(s *testhelpers.Scene) error {
			return s.Repo.CreateChangeAndCommit("initial", "init")
		})

		err := scene.Repo.CreateAndCheckoutBranch("feature")
		require.NoError(t, err)

		err = scene.Repo.CreateChangeAndCommit("feat: first commit", "change1")
		require.NoError(t, err)
		err = scene.Repo.CreateChangeAndCommit("feat: second commit", "change2")
		require.NoError(t, err)

		messages, err := git.GetCommitMessages("feature", "main")
		require.NoError(t, err)
		require.Equal(t, []string{"feat: second commit", "feat: first commit"}, messages)
	})
}
