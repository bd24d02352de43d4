package engine

// RestackResult classifies the outcome of restacking one branch.
type RestackResult int

const (
	// RestackDone means the branch was rebased onto its parent's tip.
	RestackDone RestackResult = iota
	// RestackUnneeded means the branch was already up to date, so no rebase ran.
	RestackUnneeded
	// RestackConflict means the rebase stopped on conflicts and the repository
	// stays mid-rebase until the user resolves and continues, or aborts.
	RestackConflict
)

func (r RestackResult) String() string {
	switch r {
	case RestackDone:
		return "done"
	case RestackUnneeded:
		return "unneeded"
	case RestackConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// RestackBranchResult reports what RestackBranch did for a single branch.
type RestackBranchResult struct {
	Result RestackResult

	// RebasedBase is the parent tip the rebase targeted. Set for RestackDone
	// and RestackConflict; after a conflict the caller passes it back to
	// ContinueRebase so the finished rebase is recorded against the same
	// commit the rebase actually used.
	RebasedBase string

	// AnchorAdvanced is set when the branch had no commits of its own, so
	// only its recorded parent position moved forward and no rebase ran.
	AnchorAdvanced bool

	// BaseRecomputed is set when the recorded parent position was unusable,
	// because the parent was rewritten or the commit no longer exists, and
	// the rebase range was recomputed from the merge base instead.
	BaseRecomputed bool
}

// ContinueRebaseResult reports the outcome of resuming a conflicted rebase.
type ContinueRebaseResult struct {
	Result RestackResult

	// BranchName is the branch whose rebase was resumed.
	BranchName string
}
