// Package engine binds the tracked branch graph to the underlying git
// repository. It owns the branch mutators (create, checkout, mount, delete)
// and the per-branch restack primitives; commands orchestrate multi-branch
// operations on top of these.
//
// The graph records intent (which branch stacks on which); git holds the
// truth about commits. Engine methods reconcile the two and persist the graph
// after every mutation they complete, so a crash between branches of a long
// restack loses at most the step in flight.
package engine
