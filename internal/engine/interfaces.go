package engine

import "context"

// BranchReader provides read access to the tracked branch graph and the git
// state it describes. Reporting commands only need this surface.
type BranchReader interface {
	// Trunk returns the trunk branch name.
	Trunk() string

	// IsTrunk reports whether branchName is the trunk.
	IsTrunk(branchName string) bool

	// IsBranchTracked reports whether branchName has a node in the graph.
	IsBranchTracked(branchName string) bool

	// CurrentBranch returns the branch currently checked out.
	CurrentBranch() (string, error)

	// TrackedBranchNames returns every tracked branch name, sorted.
	TrackedBranchNames() []string

	// GetParent returns the recorded parent of branchName.
	GetParent(branchName string) (string, error)

	// GetChildren returns the direct children of branchName, sorted.
	GetChildren(branchName string) []string

	// GetAnchor returns the parent commit recorded at the last restack, or ""
	// when it has never been recorded.
	GetAnchor(branchName string) (string, error)

	// RestackScope returns the branches a restack starting at branchName
	// walks, every branch after its parent. With includeAncestors the walk
	// starts at the bottom of branchName's stack instead of at branchName.
	// From the trunk the scope is every tracked branch.
	RestackScope(branchName string, includeAncestors bool) ([]string, error)

	// IsBranchRestacked reports whether restacking branchName right now
	// would be a no-op.
	IsBranchRestacked(branchName string) (bool, error)

	// IsMergedIntoTrunk reports whether branchName's commits are already
	// contained in the trunk.
	IsMergedIntoTrunk(ctx context.Context, branchName string) (bool, error)
}

// BranchWriter mutates the graph and, where required, the repository.
type BranchWriter interface {
	// CreateBranch creates branchName in git at the current branch's tip,
	// checks it out, and tracks it with the current branch as parent.
	CreateBranch(ctx context.Context, branchName string) error

	// CheckoutBranch switches to branchName. A name git does not know yet is
	// created the same way CreateBranch creates it; created reports that
	// case. An existing untracked branch is switched to without tracking it.
	CheckoutBranch(ctx context.Context, branchName string) (created bool, err error)

	// MountBranch moves branchName under newParent and records newParent's
	// current tip as the branch's base. Commits are not rewritten here; a
	// following restack does that, so a mistaken mount can be corrected
	// without touching history. A branch git knows but the graph does not is
	// tracked by mounting it.
	MountBranch(ctx context.Context, branchName, newParent string) error

	// DeleteBranch untracks branchName, rewires its children onto its former
	// parent, and with deleteGitBranch removes the git branch too. The
	// rewired children are returned; their recorded bases are cleared so the
	// next restack recomputes them.
	DeleteBranch(ctx context.Context, branchName string, deleteGitBranch bool) ([]string, error)
}

// Restacker exposes the per-branch rebase primitives. The restack command
// drives these over a RestackScope, persisting its own position between
// branches.
type Restacker interface {
	// RestackBranch brings branchName onto its parent's current tip. Every
	// outcome that changed the graph is persisted before it returns.
	RestackBranch(ctx context.Context, branchName string) (RestackBranchResult, error)

	// ContinueRebase resumes the in-progress rebase for pausedBranch and, on
	// completion, records rebasedBase as the branch's restacked position.
	ContinueRebase(ctx context.Context, pausedBranch, rebasedBase string) (ContinueRebaseResult, error)
}

// Engine is the full surface commands are built on.
type Engine interface {
	BranchReader
	BranchWriter
	Restacker
}
