package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"gitstack.dev/gitstack/internal/git"
)

// Scene is a throwaway git repository the test process chdirs into, so the
// package-level git helpers and anything that discovers the repository from
// the working directory operate on it.
type Scene struct {
	Dir    string
	Repo   *GitRepo
	oldDir string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and Git
// repository. It automatically handles cleanup using t.Cleanup().
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "gitstack-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	// Keep the test away from the developer's real global config and logs.
	t.Setenv("HOME", tmpDir)
	t.Setenv("GITSTACK_NON_INTERACTIVE", "1")

	// Save current directory
	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	// Initialize Git repository
	repo, err := NewGitRepo(tmpDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:    tmpDir,
		Repo:   repo,
		oldDir: oldDir,
	}

	// Change to temp directory
	if err := os.Chdir(tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}

	// Run custom setup if provided
	if setup != nil {
		if err := setup(scene); err != nil {
			os.Chdir(oldDir)
			os.RemoveAll(tmpDir)
			t.Fatalf("Setup failed: %v", err)
		}
	}

	// Rebind the shared go-git handle to this scene's repository so a
	// previous scene's repository is never read by accident.
	if err := git.InitDefaultRepoInDir(tmpDir); err != nil {
		os.Chdir(oldDir)
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to open Git repo: %v", err)
	}

	// Register cleanup
	t.Cleanup(func() {
		os.Chdir(oldDir)
		git.ResetDefaultRepo()
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	return scene
}

// GitDir returns the scene repository's .git directory.
func (s *Scene) GitDir() string {
	return filepath.Join(s.Dir, ".git")
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}
