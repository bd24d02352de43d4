package engine

import (
	"context"
	"sync"

	stackerrors "gitstack.dev/gitstack/internal/errors"
	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/stack"
)

type engineImpl struct {
	mu     sync.RWMutex
	graph  *stack.Graph
	store  *stack.Store
	runner git.Runner
}

// New loads the tracked branch graph through store and returns an Engine
// backed by runner. A corrupt or future-versioned state file fails here,
// before any command logic runs.
func New(store *stack.Store, runner git.Runner) (Engine, error) {
	graph, err := store.Load()
	if err != nil {
		return nil, err
	}
	return &engineImpl{
		graph:  graph,
		store:  store,
		runner: runner,
	}, nil
}

// NewWithGraph returns an Engine over an already-built graph. Tests use it to
// start from a known shape without round-tripping the store.
func NewWithGraph(graph *stack.Graph, store *stack.Store, runner git.Runner) Engine {
	return &engineImpl{graph: graph, store: store, runner: runner}
}

// save persists the graph. Callers hold mu.
func (e *engineImpl) save() error {
	return e.store.Save(e.graph)
}

func (e *engineImpl) Trunk() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Trunk()
}

func (e *engineImpl) IsTrunk(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.IsTrunk(branchName)
}

func (e *engineImpl) IsBranchTracked(branchName string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Has(branchName)
}

func (e *engineImpl) CurrentBranch() (string, error) {
	return e.runner.GetCurrentBranch()
}

func (e *engineImpl) TrackedBranchNames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Names()
}

func (e *engineImpl) GetParent(branchName string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.graph.IsTrunk(branchName) {
		return "", stackerrors.ErrTrunkOperation
	}
	node := e.graph.Node(branchName)
	if node == nil {
		return "", stackerrors.NewNotFoundError(branchName)
	}
	return node.Parent, nil
}

func (e *engineImpl) GetChildren(branchName string) []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.graph.Children(branchName)
}

func (e *engineImpl) GetAnchor(branchName string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	node := e.graph.Node(branchName)
	if node == nil {
		return "", stackerrors.NewNotFoundError(branchName)
	}
	return node.Anchor, nil
}

func (e *engineImpl) RestackScope(branchName string, includeAncestors bool) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.graph.IsTrunk(branchName) {
		ordered := e.graph.TopologicalOrder(branchName)
		scope := make([]string, 0, len(ordered))
		for _, name := range ordered {
			if !e.graph.IsTrunk(name) {
				scope = append(scope, name)
			}
		}
		return scope, nil
	}
	if !e.graph.Has(branchName) {
		return nil, stackerrors.NewNotFoundError(branchName)
	}

	var scope []string
	if includeAncestors {
		ancestors := e.graph.Ancestors(branchName)
		for i := len(ancestors) - 1; i >= 0; i-- {
			scope = append(scope, ancestors[i])
		}
	}
	return append(scope, e.graph.TopologicalOrder(branchName)...), nil
}

// IsBranchRestacked mirrors the skip logic of RestackBranch: a branch counts
// as restacked when it sits on its parent's current tip, or when it has no
// commits of its own and its recorded base is already the parent tip.
func (e *engineImpl) IsBranchRestacked(branchName string) (bool, error) {
	e.mu.RLock()
	node := e.graph.Node(branchName)
	e.mu.RUnlock()
	if node == nil {
		return false, stackerrors.NewNotFoundError(branchName)
	}

	parentTip, err := e.runner.GetRevision(node.Parent)
	if err != nil {
		return false, err
	}
	branchTip, err := e.runner.GetRevision(branchName)
	if err != nil {
		return false, err
	}

	onTip, err := e.runner.IsAncestor(parentTip, branchTip)
	if err != nil {
		return false, err
	}
	if onTip {
		return true, nil
	}
	if node.Anchor != parentTip {
		return false, nil
	}
	return e.runner.IsAncestor(branchTip, parentTip)
}

func (e *engineImpl) IsMergedIntoTrunk(ctx context.Context, branchName string) (bool, error) {
	e.mu.RLock()
	trunk := e.graph.Trunk()
	e.mu.RUnlock()
	return e.runner.IsMerged(ctx, branchName, trunk)
}
