package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// RealClient implements Client against the GitHub API, including GitHub
// Enterprise instances.
type RealClient struct {
	client     *github.Client
	owner      string
	repo       string
	token      string
	graphqlURL string
}

// NewRealClient discovers the token and repository from the environment and
// returns a ready client.
func NewRealClient(ctx context.Context) (*RealClient, error) {
	token, err := GetToken()
	if err != nil {
		return nil, err
	}

	repoInfo, err := DiscoverRepo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get repository info: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	graphqlURL := "https://api.github.com/graphql"
	if repoInfo.Hostname != "github.com" {
		// GitHub Enterprise API endpoints
		// REST API: https://hostname/api/v3/
		// GraphQL:  https://hostname/api/graphql
		baseURL, err := url.Parse(fmt.Sprintf("https://%s/api/v3/", repoInfo.Hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL for hostname %s: %w", repoInfo.Hostname, err)
		}
		uploadURL, err := url.Parse(fmt.Sprintf("https://%s/api/uploads/", repoInfo.Hostname))
		if err != nil {
			return nil, fmt.Errorf("failed to parse upload URL for hostname %s: %w", repoInfo.Hostname, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = uploadURL
		graphqlURL = fmt.Sprintf("https://%s/api/graphql", repoInfo.Hostname)
	}

	return &RealClient{
		client:     client,
		owner:      repoInfo.Owner,
		repo:       repoInfo.Repo,
		token:      token,
		graphqlURL: graphqlURL,
	}, nil
}

// NewRealClientWithClient wraps an existing go-github client. Tests use this
// to point the client at a mock server.
func NewRealClientWithClient(client *github.Client, owner, repo string) *RealClient {
	return &RealClient{
		client: client,
		owner:  owner,
		repo:   repo,
	}
}

// GetOwnerRepo returns the repository owner and name
func (c *RealClient) GetOwnerRepo() (string, string) {
	return c.owner, c.repo
}

// CreatePullRequest creates a new pull request
func (c *RealClient) CreatePullRequest(ctx context.Context, opts CreatePROptions) (*PullRequestInfo, error) {
	pr := &github.NewPullRequest{
		Title: github.String(opts.Title),
		Head:  github.String(opts.Head),
		Base:  github.String(opts.Base),
		Draft: github.Bool(opts.Draft),
	}

	if opts.Body != "" {
		pr.Body = github.String(opts.Body)
	}

	createdPR, _, err := c.client.PullRequests.Create(ctx, c.owner, c.repo, pr)
	if err != nil {
		return nil, fmt.Errorf("failed to create pull request: %w", err)
	}

	// Reviewer requests are best effort
	if len(opts.Reviewers) > 0 || len(opts.TeamReviewers) > 0 {
		_, _, _ = c.client.PullRequests.RequestReviewers(ctx, c.owner, c.repo, *createdPR.Number, github.ReviewersRequest{
			Reviewers:     opts.Reviewers,
			TeamReviewers: opts.TeamReviewers,
		})
	}

	return toPullRequestInfo(createdPR), nil
}

// UpdatePullRequest updates an existing pull request
func (c *RealClient) UpdatePullRequest(ctx context.Context, prNumber int, opts UpdatePROptions) error {
	// Draft status changes go through GraphQL, the REST API does not
	// support them.
	if opts.Draft != nil {
		pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, prNumber)
		if err == nil && pr.Draft != nil && *pr.Draft != *opts.Draft {
			if pr.NodeID == nil {
				return fmt.Errorf("PR %d does not have a Node ID", prNumber)
			}
			if err := c.setDraft(ctx, *pr.NodeID, *opts.Draft); err != nil {
				return fmt.Errorf("failed to update draft status for PR %d: %w", prNumber, err)
			}
		}
	}

	update := &github.PullRequest{}

	if opts.Title != nil {
		update.Title = opts.Title
	}
	if opts.Body != nil {
		update.Body = opts.Body
	}
	if opts.Base != nil {
		update.Base = &github.PullRequestBranch{
			Ref: opts.Base,
		}
	}

	_, _, err := c.client.PullRequests.Edit(ctx, c.owner, c.repo, prNumber, update)
	if err != nil {
		return fmt.Errorf("failed to update pull request: %w", err)
	}

	return nil
}

// GetPullRequestByBranch gets a pull request for a branch
func (c *RealClient) GetPullRequestByBranch(ctx context.Context, branchName string) (*PullRequestInfo, error) {
	prs, _, err := c.client.PullRequests.List(ctx, c.owner, c.repo, &github.PullRequestListOptions{
		Head:  fmt.Sprintf("%s:%s", c.owner, branchName),
		State: "all",
		ListOptions: github.ListOptions{
			PerPage: 1,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	if len(prs) == 0 {
		return nil, nil
	}

	return toPullRequestInfo(prs[0]), nil
}

// setDraft toggles the draft status of a PR via the GraphQL API
func (c *RealClient) setDraft(ctx context.Context, pullRequestID string, isDraft bool) error {
	var mutation string
	var mutationName string
	if isDraft {
		mutationName = "convertPullRequestToDraft"
		mutation = `mutation ConvertPullRequestToDraft($pullRequestId: ID!) {
			convertPullRequestToDraft(input: {pullRequestId: $pullRequestId}) {
				pullRequest {
					id
					isDraft
				}
			}
		}`
	} else {
		mutationName = "markPullRequestReadyForReview"
		mutation = `mutation MarkPullRequestReadyForReview($pullRequestId: ID!) {
			markPullRequestReadyForReview(input: {pullRequestId: $pullRequestId}) {
				pullRequest {
					id
					isDraft
				}
			}
		}`
	}

	requestBody := map[string]interface{}{
		"query": mutation,
		"variables": map[string]interface{}{
			"pullRequestId": pullRequestID,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	graphqlURL := c.graphqlURL
	if graphqlURL == "" {
		graphqlURL = "https://api.github.com/graphql"
	}

	req, err := http.NewRequestWithContext(ctx, "POST", graphqlURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create GraphQL request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.token))

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute GraphQL request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GraphQL request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var graphqlResponse struct {
		Data   interface{} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	if err := json.Unmarshal(body, &graphqlResponse); err != nil {
		return fmt.Errorf("failed to parse GraphQL response: %w", err)
	}

	if len(graphqlResponse.Errors) > 0 {
		errorMessages := make([]string, len(graphqlResponse.Errors))
		for i, gqlErr := range graphqlResponse.Errors {
			errorMessages[i] = gqlErr.Message
		}
		return fmt.Errorf("GraphQL %s mutation failed: %s", mutationName, strings.Join(errorMessages, "; "))
	}

	return nil
}

// toPullRequestInfo converts a github.PullRequest to PullRequestInfo
func toPullRequestInfo(pr *github.PullRequest) *PullRequestInfo {
	if pr == nil {
		return nil
	}

	info := &PullRequestInfo{}

	if pr.Number != nil {
		info.Number = *pr.Number
	}
	if pr.NodeID != nil {
		info.NodeID = *pr.NodeID
	}
	if pr.HTMLURL != nil {
		info.HTMLURL = *pr.HTMLURL
	}
	if pr.Title != nil {
		info.Title = *pr.Title
	}
	if pr.Body != nil {
		info.Body = *pr.Body
	}
	if pr.State != nil {
		info.State = strings.ToLower(*pr.State)
	}
	if pr.Merged != nil {
		info.Merged = *pr.Merged
	}
	if pr.MergedAt != nil {
		info.Merged = true
	}
	if pr.Draft != nil {
		info.Draft = *pr.Draft
	}
	if pr.Base != nil && pr.Base.Ref != nil {
		info.Base = *pr.Base.Ref
	}
	if pr.Head != nil && pr.Head.Ref != nil {
		info.Head = *pr.Head.Ref
	}

	return info
}
