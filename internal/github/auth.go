package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gitstack.dev/gitstack/internal/git"
)

// GetToken returns the GitHub token from the environment or the gh CLI
func GetToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token, nil
	}

	output, err := git.RunGHCommandWithContext(context.Background(), "auth", "token")
	if err != nil {
		return "", fmt.Errorf("failed to get GitHub token: set GITHUB_TOKEN or authenticate with 'gh auth login': %w", err)
	}

	token := strings.TrimSpace(output)
	if token == "" {
		return "", fmt.Errorf("empty GitHub token")
	}

	return token, nil
}

// RepoInfo contains parsed information from a git remote URL
type RepoInfo struct {
	Hostname string
	Owner    string
	Repo     string
}

// ParseRemoteURL parses a git remote URL and extracts hostname, owner, and repo.
// Supports both github.com and GitHub Enterprise URLs.
// Examples:
//   - https://github.com/owner/repo.git
//   - git@github.com:owner/repo.git
//   - https://github.company.com/owner/repo.git
//   - git@github.company.com:owner/repo.git
func ParseRemoteURL(remoteURL string) (*RepoInfo, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	var hostname, owner, repo string

	if strings.Contains(remoteURL, "@") {
		// SSH format: git@hostname:owner/repo or git@hostname/owner/repo
		parts := strings.SplitN(remoteURL, "@", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid SSH remote URL format")
		}

		hostAndPath := parts[1]

		var path string
		if strings.Contains(hostAndPath, ":") {
			// Format: git@hostname:owner/repo
			hostPathParts := strings.SplitN(hostAndPath, ":", 2)
			hostname = hostPathParts[0]
			path = hostPathParts[1]
		} else {
			// Format: git@hostname/owner/repo (less common)
			pathParts := strings.SplitN(hostAndPath, "/", 2)
			if len(pathParts) < 2 {
				return nil, fmt.Errorf("invalid SSH remote URL: missing path")
			}
			hostname = pathParts[0]
			path = pathParts[1]
		}

		pathParts := strings.Split(path, "/")
		if len(pathParts) < 2 {
			return nil, fmt.Errorf("invalid SSH remote URL: path must be owner/repo")
		}
		owner = pathParts[0]
		repo = pathParts[len(pathParts)-1]
	} else {
		// HTTPS format: https://hostname/owner/repo
		remoteURL = strings.TrimPrefix(remoteURL, "https://")
		remoteURL = strings.TrimPrefix(remoteURL, "http://")

		parts := strings.Split(remoteURL, "/")
		if len(parts) < 3 {
			return nil, fmt.Errorf("invalid HTTPS remote URL: must be protocol://hostname/owner/repo")
		}

		hostname = parts[0]
		owner = parts[len(parts)-2]
		repo = parts[len(parts)-1]
	}

	if hostname == "" || owner == "" || repo == "" {
		return nil, fmt.Errorf("failed to parse hostname, owner, or repo from remote URL")
	}

	return &RepoInfo{
		Hostname: hostname,
		Owner:    owner,
		Repo:     repo,
	}, nil
}

// DiscoverRepo reads the origin remote URL and parses it into RepoInfo
func DiscoverRepo(ctx context.Context) (*RepoInfo, error) {
	remoteURL, err := git.RunGitCommandWithContext(ctx, "config", "--get", "remote.origin.url")
	if err != nil {
		return nil, fmt.Errorf("failed to get remote URL: %w", err)
	}

	return ParseRemoteURL(remoteURL)
}
