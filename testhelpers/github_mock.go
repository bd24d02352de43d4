package testhelpers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServer speaks just enough of the GitHub pulls REST API for the
// client under test: create, get, edit, list-by-head, and reviewer requests.
type MockGitHubServer struct {
	*httptest.Server

	Owner string
	Repo  string

	mu         sync.Mutex
	nextNumber int
	prs        map[int]*github.PullRequest
	byHead     map[string]int
}

// NewMockGitHubServer starts a mock server that is shut down with the test.
func NewMockGitHubServer(t *testing.T) *MockGitHubServer {
	t.Helper()

	s := &MockGitHubServer{
		Owner:      "owner",
		Repo:       "repo",
		nextNumber: 1,
		prs:        make(map[int]*github.PullRequest),
		byHead:     make(map[string]int),
	}

	mux := http.NewServeMux()
	base := "/repos/" + s.Owner + "/" + s.Repo + "/pulls"
	mux.HandleFunc(base, s.handlePulls)
	mux.HandleFunc(base+"/", s.handlePull)

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)
	return s
}

// Client returns a go-github client pointed at the mock server.
func (s *MockGitHubServer) Client() *github.Client {
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(s.Server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL
	return client
}

// SeedPR registers a pull request as if it already existed on GitHub and
// returns its number.
func (s *MockGitHubServer) SeedPR(head, base, state string, merged bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	number := s.nextNumber
	s.nextNumber++
	s.prs[number] = &github.PullRequest{
		Number:  github.Int(number),
		State:   github.String(state),
		Merged:  github.Bool(merged),
		Head:    &github.PullRequestBranch{Ref: github.String(head)},
		Base:    &github.PullRequestBranch{Ref: github.String(base)},
		HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", s.Owner, s.Repo, number)),
	}
	s.byHead[head] = number
	return number
}

// PR returns the stored pull request, or nil when the number is unknown.
func (s *MockGitHubServer) PR(number int) *github.PullRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prs[number]
}

// handlePulls covers the collection endpoint: create and list-by-head.
func (s *MockGitHubServer) handlePulls(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var in github.NewPullRequest
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		number := s.nextNumber
		s.nextNumber++
		pr := &github.PullRequest{
			Number:  github.Int(number),
			NodeID:  github.String(fmt.Sprintf("PR_node_%d", number)),
			Title:   in.Title,
			Body:    in.Body,
			Draft:   in.Draft,
			State:   github.String("open"),
			Head:    &github.PullRequestBranch{Ref: in.Head},
			Base:    &github.PullRequestBranch{Ref: in.Base},
			HTMLURL: github.String(fmt.Sprintf("https://github.com/%s/%s/pull/%d", s.Owner, s.Repo, number)),
		}
		s.prs[number] = pr
		if in.Head != nil {
			s.byHead[*in.Head] = number
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusCreated, pr)

	case http.MethodGet:
		head := r.URL.Query().Get("head")
		head = strings.TrimPrefix(head, s.Owner+":")

		s.mu.Lock()
		number, ok := s.byHead[head]
		pr := s.prs[number]
		s.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusOK, []*github.PullRequest{})
			return
		}
		writeJSON(w, http.StatusOK, []*github.PullRequest{pr})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePull covers a single pull request: get, edit, reviewer requests.
func (s *MockGitHubServer) handlePull(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/repos/"+s.Owner+"/"+s.Repo+"/pulls/")

	if strings.HasSuffix(rest, "/requested_reviewers") && r.Method == http.MethodPost {
		writeJSON(w, http.StatusCreated, map[string]string{"message": "reviewers requested"})
		return
	}

	number, err := strconv.Atoi(strings.SplitN(rest, "/", 2)[0])
	if err != nil {
		http.Error(w, "invalid pull request number", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	pr, ok := s.prs[number]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "pull request not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, pr)

	case http.MethodPatch:
		// go-github sends base as a plain string, not an object.
		var in struct {
			Title *string `json:"title"`
			Body  *string `json:"body"`
			State *string `json:"state"`
			Base  *string `json:"base"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		if in.Title != nil {
			pr.Title = in.Title
		}
		if in.Body != nil {
			pr.Body = in.Body
		}
		if in.State != nil {
			pr.State = in.State
		}
		if in.Base != nil {
			pr.Base = &github.PullRequestBranch{Ref: in.Base}
		}
		s.mu.Unlock()

		writeJSON(w, http.StatusOK, pr)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
