package actions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/actions"
	"gitstack.dev/gitstack/testhelpers"
	"gitstack.dev/gitstack/testhelpers/scenario"
)

func TestSubmit(t *testing.T) {
	t.Run("opens a pull request against the parent", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHubClient()
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"}).
			WithRemote().
			WithGitHub(gh).
			Checkout("feat")

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)

		require.Len(t, gh.Created, 1)
		require.Equal(t, "feat", gh.Created[0].Head)
		require.Equal(t, "main", gh.Created[0].Base)
		require.Equal(t, "change on feat", gh.Created[0].Title)
	})

	t.Run("pushes the branch before opening the pull request", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHubClient()
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"}).
			WithRemote().
			WithGitHub(gh).
			Checkout("feat")

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)

		remoteSha, err := s.Scene.Repo.GetRevision("origin/feat")
		require.NoError(t, err)
		require.Equal(t, s.Tip("feat"), remoteSha)
	})

	t.Run("retargets an open pull request onto the recorded parent", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHubClient()
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a": "main",
				"b": "a",
			}).
			WithRemote().
			WithGitHub(gh).
			PushAllTracked().
			Checkout("b")

		// The PR still points at main from before b was mounted under a.
		number := gh.SeedPullRequest("b", "main", "open", false)

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)

		require.Empty(t, gh.Created)
		require.Len(t, gh.Updated[number], 1)
		require.NotNil(t, gh.Updated[number][0].Base)
		require.Equal(t, "a", *gh.Updated[number][0].Base)
	})

	t.Run("opens a new pull request when the old one is merged", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHubClient()
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"}).
			WithRemote().
			WithGitHub(gh).
			Checkout("feat")

		gh.SeedPullRequest("feat", "main", "closed", true)

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.NoError(t, err)
		require.Len(t, gh.Created, 1)
	})

	t.Run("requires the parent to exist on the remote", func(t *testing.T) {
		gh := testhelpers.NewFakeGitHubClient()
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{
				"a": "main",
				"b": "a",
			}).
			WithRemote().
			WithGitHub(gh).
			Checkout("b")

		// a was never pushed, so b's PR would have no base branch.
		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "Submit the parent first")
		require.Empty(t, gh.Created)
	})

	t.Run("requires a GitHub client", func(t *testing.T) {
		s := scenario.NewScenario(t, nil).
			WithStack(map[string]string{"feat": "main"}).
			WithRemote().
			Checkout("feat")

		err := actions.SubmitAction(s.Context, actions.SubmitOptions{})
		require.Error(t, err)
		require.Contains(t, err.Error(), "GitHub")
	})
}
