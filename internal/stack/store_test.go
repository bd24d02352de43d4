package stack_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/stack"
)

func TestStoreLoad(t *testing.T) {
	t.Run("missing file yields empty graph with default trunk", func(t *testing.T) {
		store := stack.NewStore(t.TempDir(), "main")

		g, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "main", g.Trunk())
		require.Zero(t, g.Len())
	})

	t.Run("round trips a saved graph", func(t *testing.T) {
		gitDir := t.TempDir()
		store := stack.NewStore(gitDir, "main")

		g := stack.NewGraph("main")
		require.NoError(t, g.Add("feature-1", "main", "abc123"))
		require.NoError(t, g.Add("feature-2", "feature-1", "def456"))
		require.NoError(t, store.Save(g))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Equal(t, "main", loaded.Trunk())
		require.Equal(t, []string{"feature-1", "feature-2"}, loaded.Names())

		node := loaded.Node("feature-2")
		require.Equal(t, "feature-1", node.Parent)
		require.Equal(t, "def456", node.Anchor)
		require.WithinDuration(t, time.Now(), node.CreatedAt, time.Minute)
	})

	t.Run("rejects future schema version", func(t *testing.T) {
		gitDir := t.TempDir()
		writeStateFile(t, gitDir, "version: 99\ntrunk: main\nbranches: []\n")

		store := stack.NewStore(gitDir, "main")
		_, err := store.Load()
		require.ErrorIs(t, err, stackerrors.ErrUnsupportedStateVersion)
	})

	t.Run("rejects missing version field", func(t *testing.T) {
		gitDir := t.TempDir()
		writeStateFile(t, gitDir, "trunk: main\nbranches: []\n")

		store := stack.NewStore(gitDir, "main")
		_, err := store.Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "version")
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		gitDir := t.TempDir()
		writeStateFile(t, gitDir, "version: [nonsense\n")

		store := stack.NewStore(gitDir, "main")
		_, err := store.Load()
		require.Error(t, err)
	})

	t.Run("rejects dangling parent", func(t *testing.T) {
		gitDir := t.TempDir()
		writeStateFile(t, gitDir, strings.Join([]string{
			"version: 1",
			"trunk: main",
			"branches:",
			"  - name: orphan",
			"    parent: vanished",
			"    anchor: abc",
			"",
		}, "\n"))

		store := stack.NewStore(gitDir, "main")
		_, err := store.Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "orphan")
	})

	t.Run("rejects duplicate branch entries", func(t *testing.T) {
		gitDir := t.TempDir()
		writeStateFile(t, gitDir, strings.Join([]string{
			"version: 1",
			"trunk: main",
			"branches:",
			"  - name: twin",
			"    parent: main",
			"  - name: twin",
			"    parent: main",
			"",
		}, "\n"))

		store := stack.NewStore(gitDir, "main")
		_, err := store.Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "twin")
	})
}

func TestStoreSave(t *testing.T) {
	t.Run("creates state directory on first save", func(t *testing.T) {
		gitDir := t.TempDir()
		store := stack.NewStore(gitDir, "main")

		require.NoError(t, store.Save(stack.NewGraph("main")))
		require.FileExists(t, store.Path())
	})

	t.Run("leaves no temporary files behind", func(t *testing.T) {
		gitDir := t.TempDir()
		store := stack.NewStore(gitDir, "main")

		g := stack.NewGraph("main")
		require.NoError(t, g.Add("feature", "main", "abc"))
		require.NoError(t, store.Save(g))
		require.NoError(t, store.Save(g))

		entries, err := os.ReadDir(filepath.Dir(store.Path()))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, filepath.Base(store.Path()), entries[0].Name())
	})

	t.Run("overwrites previous state completely", func(t *testing.T) {
		gitDir := t.TempDir()
		store := stack.NewStore(gitDir, "main")

		g := stack.NewGraph("main")
		require.NoError(t, g.Add("short-lived", "main", "abc"))
		require.NoError(t, store.Save(g))

		_, err := g.Remove("short-lived")
		require.NoError(t, err)
		require.NoError(t, store.Save(g))

		loaded, err := store.Load()
		require.NoError(t, err)
		require.Zero(t, loaded.Len())
	})

	t.Run("writes a versioned file", func(t *testing.T) {
		gitDir := t.TempDir()
		store := stack.NewStore(gitDir, "main")
		require.NoError(t, store.Save(stack.NewGraph("main")))

		data, err := os.ReadFile(store.Path())
		require.NoError(t, err)
		require.Contains(t, string(data), "version: 1")
		require.Contains(t, string(data), "trunk: main")
	})
}

func writeStateFile(t *testing.T, gitDir, content string) {
	t.Helper()
	dir := filepath.Join(gitDir, "gitstack")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "state.yaml"), []byte(content), 0o644))
}
