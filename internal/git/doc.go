// Package git provides low-level Git operations.
//
// It wraps git command execution and provides a Go-friendly interface for:
//   - Branch management (create, delete, checkout, refs)
//   - Rebase control (start, continue, abort, in-progress detection)
//   - Repo state queries (revisions, merge bases, working tree status)
//   - Remote operations (fetch, push, remote head lookup)
//
// This package should be the only place where direct git commands are executed.
// Mutations go through the git CLI; cheap read paths go through go-git.
package git
