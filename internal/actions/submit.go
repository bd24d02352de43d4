package actions

import (
	"fmt"
	"strings"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/internal/utils"
)

// SubmitOptions contains options for the submit command
type SubmitOptions struct {
	Draft bool
	Title string
	Body  string
	// Web opens the pull request in the browser afterwards.
	Web bool
}

// SubmitAction pushes the current branch and opens a pull request against the
// branch it is stacked on, or refreshes the open one. Each branch gets its
// own PR; submitting a whole stack is running submit once per branch, bottom
// up, so every PR diffs only against its parent.
func SubmitAction(ctx *runtime.Context, opts SubmitOptions) error {
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}
	if ctx.GitHub == nil {
		return fmt.Errorf("GitHub is not configured. Set GITHUB_TOKEN (or sign in with 'gh auth login') and make sure the remote points at a GitHub repository")
	}

	name, err := requireTrackedBranch(ctx, "")
	if err != nil {
		return err
	}
	parent, err := ctx.Engine.GetParent(name)
	if err != nil {
		return err
	}

	if utils.HasUncommittedChanges(ctx.Context) {
		ctx.Splog.Warn("You have uncommitted changes; they will not be part of the pull request.")
	}
	if restacked, err := ctx.Engine.IsBranchRestacked(name); err == nil && !restacked {
		ctx.Splog.Warn("%s is not restacked on %s; the pull request may include commits that belong below it. Run %s first.",
			name, parent, output.ColorCyan("git-stack restack"))
	}

	// GitHub rejects a PR whose base branch does not exist on the remote.
	remote := ResolveRemote(ctx)
	if remote == "" {
		return fmt.Errorf("no remote configured to push %s to", name)
	}
	if !ctx.Engine.IsTrunk(parent) {
		if _, err := git.GetRemoteRevision(remote, parent); err != nil {
			return fmt.Errorf("%s is stacked on %s, which is not on %s yet. Submit the parent first: git-stack checkout %s && git-stack submit", name, parent, remote, parent)
		}
	}

	if err := PushBranch(ctx, name); err != nil {
		return err
	}

	existing, err := ctx.GitHub.GetPullRequestByBranch(ctx.Context, name)
	if err != nil {
		return fmt.Errorf("failed to look up the pull request for %s: %w", name, err)
	}

	var pr *github.PullRequestInfo
	if existing != nil && existing.IsOpen() {
		pr, err = updatePullRequest(ctx, name, parent, existing, opts)
	} else {
		if existing != nil {
			state := existing.State
			if existing.Merged {
				state = "merged"
			}
			ctx.Splog.Info("PR #%d for %s is %s; opening a new one.", existing.Number, name, state)
		}
		pr, err = createPullRequest(ctx, name, parent, opts)
	}
	if err != nil {
		return err
	}

	if opts.Web && pr != nil && pr.HTMLURL != "" {
		if err := utils.OpenBrowser(pr.HTMLURL); err != nil {
			ctx.Splog.Warn("Could not open the browser: %v", err)
		}
	}
	return nil
}

// updatePullRequest brings the open PR in line with the stack: base follows
// the recorded parent, title/body follow the flags. Without --draft an
// existing draft stays a draft; publishing is a decision, not a side effect.
func updatePullRequest(ctx *runtime.Context, branchName, parent string, pr *github.PullRequestInfo, opts SubmitOptions) (*github.PullRequestInfo, error) {
	update := github.UpdatePROptions{}
	changed := false

	if pr.Base != parent {
		ctx.Splog.Info("Retargeting PR #%d from %s to %s.", pr.Number, pr.Base, parent)
		update.Base = &parent
		changed = true
	}
	if opts.Title != "" && opts.Title != pr.Title {
		update.Title = &opts.Title
		changed = true
	}
	if opts.Body != "" && opts.Body != pr.Body {
		update.Body = &opts.Body
		changed = true
	}
	if opts.Draft && !pr.Draft {
		draft := true
		update.Draft = &draft
		changed = true
	}

	if !changed {
		ctx.Splog.Info("PR #%d for %s is up to date: %s", pr.Number, output.ColorBranchName(branchName, false), pr.HTMLURL)
		return pr, nil
	}
	if err := ctx.GitHub.UpdatePullRequest(ctx.Context, pr.Number, update); err != nil {
		return nil, fmt.Errorf("failed to update PR #%d: %w", pr.Number, err)
	}
	ctx.Splog.Info("Updated PR #%d for %s: %s", pr.Number, output.ColorBranchName(branchName, false), pr.HTMLURL)
	return pr, nil
}

func createPullRequest(ctx *runtime.Context, branchName, parent string, opts SubmitOptions) (*github.PullRequestInfo, error) {
	title := opts.Title
	if title == "" {
		subject, err := git.GetCommitSubject(branchName, parent)
		if err != nil || subject == "" {
			title = branchName
		} else {
			title = subject
		}
		if utils.IsInteractive() {
			entered, err := tui.PromptTextInput("Pull request title:", title)
			if err != nil {
				return nil, fmt.Errorf("failed to read the title: %w", err)
			}
			if strings.TrimSpace(entered) != "" {
				title = strings.TrimSpace(entered)
			}
		}
	}

	body := opts.Body
	if body == "" {
		body = defaultPullRequestBody(branchName, parent)
		if utils.IsInteractive() {
			edited, err := tui.OpenEditor(body, "gitstack-pr-body-*.md")
			if err != nil {
				ctx.Splog.Warn("Editor failed (%v); using the generated description.", err)
			} else {
				body = strings.TrimSpace(edited)
			}
		}
	}

	pr, err := ctx.GitHub.CreatePullRequest(ctx.Context, github.CreatePROptions{
		Title: title,
		Body:  body,
		Head:  branchName,
		Base:  parent,
		Draft: opts.Draft,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create the pull request: %w", err)
	}
	ctx.Splog.Info("Created PR #%d for %s: %s", pr.Number, output.ColorBranchName(branchName, false), pr.HTMLURL)
	return pr, nil
}

// defaultPullRequestBody drafts a description from the branch's commits: the
// body of a single commit, or the subjects oldest-first for several.
func defaultPullRequestBody(branchName, parent string) string {
	messages, err := git.GetCommitMessages(branchName, parent)
	if err != nil || len(messages) == 0 {
		return ""
	}
	if len(messages) == 1 {
		lines := strings.Split(messages[0], "\n")
		if len(lines) > 1 {
			return strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
		return ""
	}

	subjects, err := git.GetCommitRange(parent, branchName, "SUBJECT")
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for i := len(subjects) - 1; i >= 0; i-- {
		sb.WriteString("- " + subjects[i] + "\n")
	}
	return strings.TrimSpace(sb.String())
}
