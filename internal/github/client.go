// Package github provides a client for interacting with the GitHub API.
package github

import (
	"context"
)

// PullRequestInfo contains information about a pull request
// This is a simplified struct to avoid coupling to go-github library
type PullRequestInfo struct {
	Number  int
	NodeID  string
	HTMLURL string
	Title   string
	Body    string
	State   string // open, closed
	Merged  bool
	Draft   bool
	Base    string
	Head    string
}

// IsOpen reports whether the pull request is still open
func (pr *PullRequestInfo) IsOpen() bool {
	return pr.State == "open"
}

// CreatePROptions contains options for creating a pull request
type CreatePROptions struct {
	Title         string
	Body          string
	Head          string
	Base          string
	Draft         bool
	Reviewers     []string
	TeamReviewers []string
}

// UpdatePROptions contains options for updating a pull request.
// Nil fields are left unchanged.
type UpdatePROptions struct {
	Title *string
	Body  *string
	Base  *string
	Draft *bool
}

// Client is an interface for GitHub API interactions
type Client interface {
	// CreatePullRequest creates a new pull request
	CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error)

	// UpdatePullRequest updates an existing pull request
	UpdatePullRequest(ctx context.Context, prNumber int, opts UpdatePROptions) error

	// GetPullRequestByBranch returns the most recent pull request whose head
	// is the given branch, or nil when the branch has no pull request
	GetPullRequestByBranch(ctx context.Context, branchName string) (*PullRequestInfo, error)

	// GetOwnerRepo returns the repository owner and name
	GetOwnerRepo() (owner, repo string)
}
