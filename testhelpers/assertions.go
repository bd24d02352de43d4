package testhelpers

import (
	"os/exec"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must panics if err is not nil, otherwise returns the value. For test setup
// code where an error should halt the test immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository has exactly the expected local
// branches, order ignored.
func ExpectBranches(t *testing.T, repo *GitRepo, expected []string) {
	t.Helper()

	cmd := exec.Command("git", "-C", repo.Dir,
		"for-each-ref", "refs/heads/", "--format=%(refname:short)")
	output, err := cmd.Output()
	require.NoError(t, err, "Failed to list branches")

	branches := []string{}
	for _, b := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if b = strings.TrimSpace(b); b != "" {
			branches = append(branches, b)
		}
	}

	sort.Strings(branches)
	sorted := append([]string(nil), expected...)
	sort.Strings(sorted)
	require.Equal(t, sorted, branches, "Branches do not match")
}

// ExpectCommits asserts that branch's history starts with the expected
// commit subjects, newest first.
func ExpectCommits(t *testing.T, repo *GitRepo, branch string, expected []string) {
	t.Helper()

	cmd := exec.Command("git", "-C", repo.Dir,
		"log", "--oneline", "--format=%s", branch)
	output, err := cmd.Output()
	require.NoError(t, err, "Failed to list commits")

	commits := []string{}
	for _, c := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if c = strings.TrimSpace(c); c != "" {
			commits = append(commits, c)
		}
	}

	if len(commits) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(commits))
		return
	}
	require.Equal(t, expected, commits[:len(expected)], "Commits do not match")
}
