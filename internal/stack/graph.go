// Package stack models the tracked branch graph: which branch is stacked on
// which, and where each branch last saw its parent. The graph is pure data;
// it never talks to git. Callers supply commit ids (anchors) and apply the
// side effects.
package stack

import (
	"fmt"
	"sort"
	"time"

	"github.com/philopon/go-toposort"

	stackerrors "gitstack.dev/gitstack/internal/errors"
)

// Node is one tracked branch. Parent is the branch it is stacked on; stack
// roots carry the trunk name. Anchor is the commit id of the parent at the
// last successful restack, or "" when unknown (a restack recomputes it).
type Node struct {
	Name      string    `yaml:"name"`
	Parent    string    `yaml:"parent"`
	Anchor    string    `yaml:"anchor"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Graph is the in-memory branch relationship model, an arena keyed by branch
// name. The trunk is not a node; it is the root every stack bottoms out on.
type Graph struct {
	trunk string
	nodes map[string]*Node
}

// NewGraph creates an empty graph rooted at trunk.
func NewGraph(trunk string) *Graph {
	return &Graph{
		trunk: trunk,
		nodes: make(map[string]*Node),
	}
}

// Trunk returns the trunk branch name.
func (g *Graph) Trunk() string {
	return g.trunk
}

// IsTrunk reports whether name is the trunk branch.
func (g *Graph) IsTrunk(name string) bool {
	return name == g.trunk
}

// Has reports whether name is a tracked branch.
func (g *Graph) Has(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the tracked branch node, or nil if name is not tracked.
// Mutate nodes through graph methods, not through the returned pointer.
func (g *Graph) Node(name string) *Node {
	return g.nodes[name]
}

// Len returns the number of tracked branches, trunk excluded.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Names returns all tracked branch names in sorted order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Add tracks a new branch stacked on parent with the given anchor.
func (g *Graph) Add(name, parent, anchor string) error {
	if g.IsTrunk(name) || g.Has(name) {
		return stackerrors.NewDuplicateBranchError(name)
	}
	if !g.IsTrunk(parent) && !g.Has(parent) {
		return stackerrors.NewUnknownParentError(name, parent)
	}

	g.nodes[name] = &Node{
		Name:      name,
		Parent:    parent,
		Anchor:    anchor,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// Reparent moves name under newParent and resets its anchor. Fails when the
// move would make name its own ancestor. Metadata only; commits are untouched.
func (g *Graph) Reparent(name, newParent, anchor string) error {
	if g.IsTrunk(name) {
		return stackerrors.ErrTrunkOperation
	}
	node, ok := g.nodes[name]
	if !ok {
		return stackerrors.NewNotFoundError(name)
	}
	if !g.IsTrunk(newParent) && !g.Has(newParent) {
		return stackerrors.NewUnknownParentError(name, newParent)
	}
	if newParent == name || g.isDescendant(name, newParent) {
		return stackerrors.NewCycleError(name, newParent)
	}

	node.Parent = newParent
	node.Anchor = anchor
	return nil
}

// SetAnchor records the parent commit id a branch was last restacked onto.
func (g *Graph) SetAnchor(name, anchor string) error {
	node, ok := g.nodes[name]
	if !ok {
		return stackerrors.NewNotFoundError(name)
	}
	node.Anchor = anchor
	return nil
}

// Remove untracks a branch. Its children are rewired onto the removed node's
// parent and their anchors are cleared so the next restack recomputes them.
// Returns the rewired children, sorted.
func (g *Graph) Remove(name string) ([]string, error) {
	if g.IsTrunk(name) {
		return nil, stackerrors.ErrTrunkOperation
	}
	node, ok := g.nodes[name]
	if !ok {
		return nil, stackerrors.NewNotFoundError(name)
	}

	rewired := g.Children(name)
	for _, child := range rewired {
		childNode := g.nodes[child]
		childNode.Parent = node.Parent
		childNode.Anchor = ""
	}
	delete(g.nodes, name)
	return rewired, nil
}

// Children returns the direct children of name, sorted.
func (g *Graph) Children(name string) []string {
	var children []string
	for childName, node := range g.nodes {
		if node.Parent == name {
			children = append(children, childName)
		}
	}
	sort.Strings(children)
	return children
}

// Ancestors returns the chain from name's parent up to, but excluding, trunk.
// The nearest ancestor comes first.
func (g *Graph) Ancestors(name string) []string {
	var ancestors []string
	seen := map[string]bool{name: true}

	node, ok := g.nodes[name]
	for ok {
		parent := node.Parent
		if g.IsTrunk(parent) || seen[parent] {
			break
		}
		seen[parent] = true
		ancestors = append(ancestors, parent)
		node, ok = g.nodes[parent]
	}
	return ancestors
}

// Descendants returns every branch stacked above name, breadth-first, name
// excluded. Children are visited in sorted order so the result is stable.
func (g *Graph) Descendants(name string) []string {
	var descendants []string
	queue := g.Children(name)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		descendants = append(descendants, current)
		queue = append(queue, g.Children(current)...)
	}
	return descendants
}

// TopologicalOrder returns name followed by its descendants, every branch
// after its parent. This is the order a restack has to walk so each branch
// rebases onto an already-updated base.
func (g *Graph) TopologicalOrder(name string) []string {
	members := append([]string{name}, g.Descendants(name)...)

	graph := toposort.NewGraph(len(members))
	graph.AddNodes(members...)
	for _, member := range members {
		for _, child := range g.Children(member) {
			graph.AddEdge(member, child)
		}
	}

	ordered, ok := graph.Toposort()
	if !ok {
		// A validated graph is a tree, so the BFS order is already
		// parent-before-child.
		return members
	}
	return ordered
}

// RenameTrunk re-roots the graph on newTrunk. Branches stacked directly on
// the old trunk move under the new one with their anchors cleared, so the
// next restack recomputes their bases against the new root. Fails when
// newTrunk is itself a tracked branch.
func (g *Graph) RenameTrunk(newTrunk string) error {
	if newTrunk == g.trunk {
		return nil
	}
	if g.Has(newTrunk) {
		return stackerrors.NewDuplicateBranchError(newTrunk)
	}
	for _, node := range g.nodes {
		if node.Parent == g.trunk {
			node.Parent = newTrunk
			node.Anchor = ""
		}
	}
	g.trunk = newTrunk
	return nil
}

// isDescendant reports whether candidate is somewhere above name.
func (g *Graph) isDescendant(name, candidate string) bool {
	node, ok := g.nodes[candidate]
	for ok {
		if node.Parent == name {
			return true
		}
		node, ok = g.nodes[node.Parent]
	}
	return false
}

// Validate checks referential validity and acyclicity over the whole graph.
// A dangling parent or a parent cycle is reported with the offending branch,
// never repaired silently.
func (g *Graph) Validate() error {
	for name, node := range g.nodes {
		if node.Parent == "" {
			return fmt.Errorf("branch %s has no parent recorded; the state file is corrupt", name)
		}
		if !g.IsTrunk(node.Parent) && !g.Has(node.Parent) {
			return fmt.Errorf("branch %s refers to parent %s which is not tracked: %w", name, node.Parent, stackerrors.NewUnknownParentError(name, node.Parent))
		}
	}

	for name := range g.nodes {
		steps := 0
		current := name
		for !g.IsTrunk(current) {
			if steps > len(g.nodes) {
				return fmt.Errorf("branch %s never reaches trunk %s: %w", name, g.trunk, stackerrors.NewCycleError(name, g.nodes[name].Parent))
			}
			steps++
			current = g.nodes[current].Parent
		}
	}
	return nil
}

// insert places a node directly into the arena, bypassing Add's validation.
// The store uses it while loading; Validate runs afterwards.
func (g *Graph) insert(node Node) {
	copied := node
	g.nodes[node.Name] = &copied
}
