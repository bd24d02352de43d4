package testhelpers

import (
	"context"
	"fmt"
	"sync"

	"gitstack.dev/gitstack/internal/github"
)

// FakeGitHubClient is an in-memory github.Client. Action tests seed it with
// pull requests and inspect what was created or updated afterwards.
type FakeGitHubClient struct {
	mu         sync.Mutex
	nextNumber int
	byBranch   map[string]*github.PullRequestInfo
	byNumber   map[int]*github.PullRequestInfo

	// Created records every CreatePullRequest call in order.
	Created []github.CreatePROptions
	// Updated records every UpdatePullRequest call per PR number.
	Updated map[int][]github.UpdatePROptions
	// Err, when set, is returned by every API call.
	Err error
}

// NewFakeGitHubClient returns an empty fake client.
func NewFakeGitHubClient() *FakeGitHubClient {
	return &FakeGitHubClient{
		nextNumber: 1,
		byBranch:   make(map[string]*github.PullRequestInfo),
		byNumber:   make(map[int]*github.PullRequestInfo),
		Updated:    make(map[int][]github.UpdatePROptions),
	}
}

// SeedPullRequest registers a pull request as if it already existed and
// returns its number.
func (c *FakeGitHubClient) SeedPullRequest(head, base, state string, merged bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	number := c.nextNumber
	c.nextNumber++
	pr := &github.PullRequestInfo{
		Number:  number,
		State:   state,
		Merged:  merged,
		Base:    base,
		Head:    head,
		HTMLURL: fmt.Sprintf("https://github.com/owner/repo/pull/%d", number),
	}
	c.byBranch[head] = pr
	c.byNumber[number] = pr
	return number
}

// PR returns the stored pull request, or nil when the number is unknown.
func (c *FakeGitHubClient) PR(number int) *github.PullRequestInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pr, ok := c.byNumber[number]; ok {
		cp := *pr
		return &cp
	}
	return nil
}

// GetOwnerRepo returns the repository owner and name
func (c *FakeGitHubClient) GetOwnerRepo() (string, string) {
	return "owner", "repo"
}

// CreatePullRequest creates a new pull request
func (c *FakeGitHubClient) CreatePullRequest(_ context.Context, opts github.CreatePROptions) (*github.PullRequestInfo, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	number := c.nextNumber
	c.nextNumber++
	pr := &github.PullRequestInfo{
		Number:  number,
		Title:   opts.Title,
		Body:    opts.Body,
		State:   "open",
		Draft:   opts.Draft,
		Base:    opts.Base,
		Head:    opts.Head,
		HTMLURL: fmt.Sprintf("https://github.com/owner/repo/pull/%d", number),
	}
	c.byBranch[opts.Head] = pr
	c.byNumber[number] = pr
	c.Created = append(c.Created, opts)

	cp := *pr
	return &cp, nil
}

// UpdatePullRequest updates an existing pull request
func (c *FakeGitHubClient) UpdatePullRequest(_ context.Context, prNumber int, opts github.UpdatePROptions) error {
	if c.Err != nil {
		return c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pr, ok := c.byNumber[prNumber]
	if !ok {
		return fmt.Errorf("no pull request with number %d", prNumber)
	}
	if opts.Title != nil {
		pr.Title = *opts.Title
	}
	if opts.Body != nil {
		pr.Body = *opts.Body
	}
	if opts.Base != nil {
		pr.Base = *opts.Base
	}
	if opts.Draft != nil {
		pr.Draft = *opts.Draft
	}
	c.Updated[prNumber] = append(c.Updated[prNumber], opts)
	return nil
}

// GetPullRequestByBranch gets a pull request for a branch
func (c *FakeGitHubClient) GetPullRequestByBranch(_ context.Context, branchName string) (*github.PullRequestInfo, error) {
	if c.Err != nil {
		return nil, c.Err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	pr, ok := c.byBranch[branchName]
	if !ok {
		return nil, nil
	}
	cp := *pr
	return &cp, nil
}
