// Package scenario provides a high-level test scenario that combines a Scene,
// an Engine, and a runtime Context to provide a terse API for action tests.
package scenario

import (
	gocontext "context"
	"testing"

	"github.com/stretchr/testify/require"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/engine"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/testhelpers"
)

// Scenario wires a throwaway repository to a live engine and runtime context
// so action tests read like the command sequences they exercise.
type Scenario struct {
	T       *testing.T
	Scene   *testhelpers.Scene
	Engine  engine.Engine
	Context *runtime.Context
}

// NewScenario creates an initialized scenario: a repository with one commit
// on main, the repo config written, and an engine over a fresh state file.
// NOTE: not safe for parallel tests; NewScene chdirs and uses t.Setenv.
func NewScenario(t *testing.T, setup testhelpers.SceneSetup) *Scenario {
	t.Helper()

	if setup == nil {
		setup = testhelpers.BasicSceneSetup
	}
	scene := testhelpers.NewScene(t, setup)

	err := config.SetTrunk(scene.GitDir(), "main")
	require.NoError(t, err)

	s := &Scenario{T: t, Scene: scene}
	s.Reload()
	return s
}

// Reload rebuilds the engine and context from the state file on disk. Call
// it after anything outside the engine (the CLI binary, raw git) changed the
// repository or the state file behind the engine's back.
func (s *Scenario) Reload() *Scenario {
	s.T.Helper()

	git.ResetDefaultRepo()
	err := git.InitDefaultRepoInDir(s.Scene.Dir)
	require.NoError(s.T, err)

	trunk, err := config.GetTrunk(s.Scene.GitDir())
	require.NoError(s.T, err)

	eng, err := engine.New(stack.NewStore(s.Scene.GitDir(), trunk), git.NewRealRunner())
	require.NoError(s.T, err)

	s.Engine = eng
	s.Context = &runtime.Context{
		Context:  gocontext.Background(),
		Engine:   eng,
		Splog:    tui.NewSplog(),
		RepoRoot: s.Scene.Dir,
		GitDir:   s.Scene.GitDir(),
	}
	return s
}

// WithGitHub installs a github.Client, normally the testhelpers fake.
func (s *Scenario) WithGitHub(client github.Client) *Scenario {
	s.Context.GitHub = client
	return s
}

// WithStack lays out a branch hierarchy. Keys are branch names, values their
// parents. Each branch gets one commit of its own and is tracked with its
// parent's tip as the recorded base, so a fresh stack starts fully restacked.
func (s *Scenario) WithStack(structure map[string]string) *Scenario {
	s.T.Helper()

	created := map[string]bool{s.Engine.Trunk(): true}
	for len(created) < len(structure)+1 {
		progress := false
		for branch, parent := range structure {
			if created[branch] || !created[parent] {
				continue
			}
			s.Checkout(parent)
			err := s.Scene.Repo.CreateAndCheckoutBranch(branch)
			require.NoError(s.T, err)
			err = s.Scene.Repo.CreateChangeAndCommit("change on "+branch, branch)
			require.NoError(s.T, err)

			// MountBranch tracks an untracked branch, anchored at the
			// parent's current tip.
			err = s.Engine.MountBranch(gocontext.Background(), branch, parent)
			require.NoError(s.T, err)

			created[branch] = true
			progress = true
		}
		if !progress {
			s.T.Fatalf("could not resolve stack structure: circular dependency or missing parent")
		}
	}
	return s
}

// Checkout checks out a branch with plain git.
func (s *Scenario) Checkout(branch string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CheckoutBranch(branch)
	require.NoError(s.T, err)
	return s
}

// Commit creates an empty commit with the given message on the current branch.
func (s *Scenario) Commit(message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.RunGitCommand("commit", "--allow-empty", "-m", message)
	require.NoError(s.T, err)
	return s
}

// CommitChange creates a file change and commits it.
func (s *Scenario) CommitChange(name, message string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChangeAndCommit(message, name)
	require.NoError(s.T, err)
	return s
}

// CommitChangeOn checks out branch, commits a change there, and stays on it.
func (s *Scenario) CommitChangeOn(branch, name, message string) *Scenario {
	s.T.Helper()
	return s.Checkout(branch).CommitChange(name, message)
}

// WithUncommittedChange dirties the working tree.
func (s *Scenario) WithUncommittedChange(name string) *Scenario {
	s.T.Helper()
	err := s.Scene.Repo.CreateChange("unstaged content", name, true)
	require.NoError(s.T, err)
	return s
}

// WithRemote adds a bare repository as origin and pushes the trunk to it.
func (s *Scenario) WithRemote() *Scenario {
	s.T.Helper()
	_, err := s.Scene.Repo.CreateBareRemote("origin")
	require.NoError(s.T, err)
	err = s.Scene.Repo.PushBranch("origin", s.Engine.Trunk())
	require.NoError(s.T, err)
	return s
}

// PushAllTracked pushes every tracked branch to origin.
func (s *Scenario) PushAllTracked() *Scenario {
	s.T.Helper()
	for _, name := range s.Engine.TrackedBranchNames() {
		err := s.Scene.Repo.PushBranch("origin", name)
		require.NoError(s.T, err)
	}
	return s
}

// ExpectStackStructure asserts the recorded parent of every branch in expected.
func (s *Scenario) ExpectStackStructure(expected map[string]string) *Scenario {
	s.T.Helper()
	for branch, expectedParent := range expected {
		parent, err := s.Engine.GetParent(branch)
		require.NoError(s.T, err, "parent of %s", branch)
		require.Equal(s.T, expectedParent, parent, "parent of %s does not match", branch)
	}
	return s
}

// ExpectTracked asserts which branches the graph knows about.
func (s *Scenario) ExpectTracked(branch string, tracked bool) *Scenario {
	s.T.Helper()
	require.Equal(s.T, tracked, s.Engine.IsBranchTracked(branch), "tracked state of %s", branch)
	return s
}

// ExpectRestacked asserts that restacking branch now would be a no-op.
func (s *Scenario) ExpectRestacked(branch string) *Scenario {
	s.T.Helper()
	restacked, err := s.Engine.IsBranchRestacked(branch)
	require.NoError(s.T, err)
	require.True(s.T, restacked, "%s should be restacked", branch)
	return s
}

// ExpectNeedsRestack asserts that branch is behind its parent.
func (s *Scenario) ExpectNeedsRestack(branch string) *Scenario {
	s.T.Helper()
	restacked, err := s.Engine.IsBranchRestacked(branch)
	require.NoError(s.T, err)
	require.False(s.T, restacked, "%s should need a restack", branch)
	return s
}

// ExpectBranch asserts the currently checked-out branch.
func (s *Scenario) ExpectBranch(expected string) *Scenario {
	s.T.Helper()
	actual, err := s.Scene.Repo.CurrentBranchName()
	require.NoError(s.T, err)
	require.Equal(s.T, expected, actual)
	return s
}

// ExpectAncestor asserts that ancestor's tip is contained in descendant.
func (s *Scenario) ExpectAncestor(ancestor, descendant string) *Scenario {
	s.T.Helper()
	ok, err := s.Scene.Repo.IsAncestor(ancestor, descendant)
	require.NoError(s.T, err)
	require.True(s.T, ok, "%s should be an ancestor of %s", ancestor, descendant)
	return s
}

// Tip returns the SHA a branch points at.
func (s *Scenario) Tip(branch string) string {
	s.T.Helper()
	sha, err := s.Scene.Repo.GetRevision(branch)
	require.NoError(s.T, err)
	return sha
}

// Anchor returns the recorded base of a tracked branch.
func (s *Scenario) Anchor(branch string) string {
	s.T.Helper()
	anchor, err := s.Engine.GetAnchor(branch)
	require.NoError(s.T, err)
	return anchor
}
