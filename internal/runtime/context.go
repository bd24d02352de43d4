package runtime

import (
	gocontext "context"
	"fmt"

	"gitstack.dev/gitstack/internal/config"
	"gitstack.dev/gitstack/internal/engine"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/github"
	"gitstack.dev/gitstack/internal/stack"
	"gitstack.dev/gitstack/internal/tui"
)

// Context carries what a command needs to run: the engine over this
// repository's state file, the logger, and the GitHub client when one could
// be built.
type Context struct {
	// Context is the cancellation context of the invocation, normally the
	// cobra command's.
	Context gocontext.Context

	Engine   engine.Engine
	Splog    *tui.Splog
	RepoRoot string
	GitDir   string

	// GitHub is nil when no token is configured or the remote is not a
	// GitHub repository; commands that need it check and say so.
	GitHub github.Client
}

// GetContext builds the command context for the repository containing the
// working directory. It requires `git-stack init` to have run.
func GetContext(parent gocontext.Context) (*Context, error) {
	repoRoot, gitDir, err := locateRepo()
	if err != nil {
		return nil, err
	}
	if !config.IsInitialized(gitDir) {
		return nil, fmt.Errorf("git-stack is not initialized in this repository. Run 'git-stack init' first")
	}
	return build(parent, repoRoot, gitDir)
}

// GetContextForInit builds the command context without the initialization
// check. Only the init command uses it.
func GetContextForInit(parent gocontext.Context) (*Context, error) {
	repoRoot, gitDir, err := locateRepo()
	if err != nil {
		return nil, err
	}
	return build(parent, repoRoot, gitDir)
}

func locateRepo() (repoRoot, gitDir string, err error) {
	if err := git.InitDefaultRepo(); err != nil {
		return "", "", fmt.Errorf("not a git repository: %w", err)
	}
	repoRoot, err = git.GetRepoRoot()
	if err != nil {
		return "", "", fmt.Errorf("failed to get repo root: %w", err)
	}
	gitDir, err = git.GetGitDir()
	if err != nil {
		return "", "", fmt.Errorf("failed to get git dir: %w", err)
	}
	return repoRoot, gitDir, nil
}

func build(parent gocontext.Context, repoRoot, gitDir string) (*Context, error) {
	if parent == nil {
		parent = gocontext.Background()
	}

	trunk, err := config.GetTrunk(gitDir)
	if err != nil {
		return nil, err
	}

	eng, err := engine.New(stack.NewStore(gitDir, trunk), git.NewRealRunner())
	if err != nil {
		return nil, err
	}

	// Console plus the rotating debug file; fall back to console-only when
	// the log directory cannot be created.
	splog, err := tui.NewSplogWithConfig(tui.GetLogFilePath())
	if err != nil {
		splog = tui.NewSplog()
	}

	ctx := &Context{
		Context:  parent,
		Engine:   eng,
		Splog:    splog,
		RepoRoot: repoRoot,
		GitDir:   gitDir,
	}

	// Best effort; commands that talk to GitHub handle the nil.
	if client, err := github.NewRealClient(parent); err == nil {
		ctx.GitHub = client
	}
	return ctx, nil
}
