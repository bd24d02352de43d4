package git

import (
	"context"
	"fmt"
	"strings"
)

// GetRemote returns the remote to sync against. Prefers origin when it
// exists, otherwise the first configured remote, otherwise "origin".
func GetRemote() string {
	remotes, err := RunGitCommandLines("remote")
	if err != nil || len(remotes) == 0 {
		return "origin"
	}
	for _, remote := range remotes {
		if remote == "origin" {
			return "origin"
		}
	}
	return remotes[0]
}

// Fetch updates remote-tracking branches, pruning refs deleted upstream
func Fetch(ctx context.Context, remote string) error {
	_, err := RunGitCommandWithContext(ctx, "fetch", "--prune", remote)
	if err != nil {
		return fmt.Errorf("failed to fetch from %s: %w", remote, err)
	}
	return nil
}

// GetRemoteSha returns the SHA of a remote-tracking branch, e.g. origin/feature
func GetRemoteSha(remote, branchName string) (string, error) {
	return GetRemoteRevision(remote, branchName)
}

// FetchRemoteShas returns branch name -> SHA for every remote-tracking
// branch under the given remote, from the local tracking refs.
func FetchRemoteShas(remote string) (map[string]string, error) {
	prefix := "refs/remotes/" + remote + "/"
	lines, err := RunGitCommandLines("for-each-ref", "--format=%(refname) %(objectname)", prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list remote refs for %s: %w", remote, err)
	}

	shas := make(map[string]string, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue
		}
		name := strings.TrimPrefix(fields[0], prefix)
		if name == "HEAD" {
			continue
		}
		shas[name] = fields[1]
	}
	return shas, nil
}

// GetRemoteHead returns the default branch of a remote, from the symbolic
// ref git records for <remote>/HEAD. Falls back to main or master when the
// symbolic ref is missing (common in repos cloned before git recorded it).
func GetRemoteHead(remote string) (string, error) {
	output, err := RunGitCommand("symbolic-ref", "refs/remotes/"+remote+"/HEAD")
	if err == nil {
		return strings.TrimPrefix(output, "refs/remotes/"+remote+"/"), nil
	}

	for _, candidate := range []string{"main", "master"} {
		if _, err := RunGitCommand("rev-parse", "--verify", "refs/remotes/"+remote+"/"+candidate); err == nil {
			return candidate, nil
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if _, err := RunGitCommand("rev-parse", "--verify", "refs/heads/"+candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("could not determine default branch for remote %s", remote)
}
