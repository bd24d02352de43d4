// Package errors provides sentinel errors and custom error types for the git-stack application.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrNotOnBranch indicates that HEAD is not on a branch
	ErrNotOnBranch = errors.New("not on a branch")

	// ErrDuplicateBranch indicates that a branch is already tracked in the stack
	ErrDuplicateBranch = errors.New("branch already tracked")

	// ErrUnknownParent indicates that a parent branch is neither trunk nor tracked
	ErrUnknownParent = errors.New("unknown parent branch")

	// ErrWouldCreateCycle indicates that a reparent would make a branch its own ancestor
	ErrWouldCreateCycle = errors.New("would create cycle")

	// ErrNotFound indicates that a branch is missing from the stack or the repository
	ErrNotFound = errors.New("branch not found")

	// ErrDirtyWorkingTree indicates uncommitted changes block a mutating command
	ErrDirtyWorkingTree = errors.New("working tree has uncommitted changes")

	// ErrUnsupportedStateVersion indicates the state file was written by a newer version
	ErrUnsupportedStateVersion = errors.New("unsupported state file version")

	// ErrRebaseConflict indicates that a rebase operation encountered a conflict
	ErrRebaseConflict = errors.New("rebase conflict")

	// ErrRebaseNotInProgress indicates that no rebase is currently in progress
	ErrRebaseNotInProgress = errors.New("no rebase in progress")

	// ErrTrunkOperation indicates an invalid operation on the trunk branch
	ErrTrunkOperation = errors.New("invalid operation on trunk branch")
)

// DuplicateBranchError reports an attempt to track a branch twice
type DuplicateBranchError struct {
	BranchName string
}

func (e *DuplicateBranchError) Error() string {
	return fmt.Sprintf("branch %s is already tracked; use 'git-stack checkout %s' to switch to it", e.BranchName, e.BranchName)
}

// Is returns true if the target error is ErrDuplicateBranch
func (e *DuplicateBranchError) Is(target error) bool {
	return target == ErrDuplicateBranch
}

// NewDuplicateBranchError creates a new DuplicateBranchError
func NewDuplicateBranchError(branchName string) *DuplicateBranchError {
	return &DuplicateBranchError{BranchName: branchName}
}

// UnknownParentError reports a parent that is neither trunk nor a tracked branch
type UnknownParentError struct {
	BranchName string
	ParentName string
}

func (e *UnknownParentError) Error() string {
	return fmt.Sprintf("parent %s of branch %s is not tracked; run 'git-stack checkout %s' first or pick a tracked parent", e.ParentName, e.BranchName, e.ParentName)
}

// Is returns true if the target error is ErrUnknownParent
func (e *UnknownParentError) Is(target error) bool {
	return target == ErrUnknownParent
}

// NewUnknownParentError creates a new UnknownParentError
func NewUnknownParentError(branchName, parentName string) *UnknownParentError {
	return &UnknownParentError{BranchName: branchName, ParentName: parentName}
}

// CycleError reports a mount that would make a branch its own ancestor
type CycleError struct {
	BranchName string
	ParentName string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cannot mount %s onto %s: %s is a descendant of %s; pick a parent outside the branch's own stack", e.BranchName, e.ParentName, e.ParentName, e.BranchName)
}

// Is returns true if the target error is ErrWouldCreateCycle
func (e *CycleError) Is(target error) bool {
	return target == ErrWouldCreateCycle
}

// NewCycleError creates a new CycleError
func NewCycleError(branchName, parentName string) *CycleError {
	return &CycleError{BranchName: branchName, ParentName: parentName}
}

// NotFoundError reports a branch missing from the stack metadata or the repository
type NotFoundError struct {
	BranchName string
	// InRepo is true when the metadata exists but the git branch is gone
	InRepo bool
}

func (e *NotFoundError) Error() string {
	if e.InRepo {
		return fmt.Sprintf("branch %s is tracked but no longer exists in the repository; run 'git-stack delete %s' to drop the stale entry", e.BranchName, e.BranchName)
	}
	return fmt.Sprintf("branch %s is not tracked; run 'git-stack checkout %s' to start tracking it", e.BranchName, e.BranchName)
}

// Is returns true if the target error is ErrNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(branchName string) *NotFoundError {
	return &NotFoundError{BranchName: branchName}
}

// NewStaleBranchError creates a NotFoundError for a tracked branch whose git ref vanished
func NewStaleBranchError(branchName string) *NotFoundError {
	return &NotFoundError{BranchName: branchName, InRepo: true}
}

// DirtyWorkingTreeError reports uncommitted changes blocking a mutating command
type DirtyWorkingTreeError struct {
	Command string
}

func (e *DirtyWorkingTreeError) Error() string {
	return fmt.Sprintf("cannot %s with uncommitted changes; commit or stash them first", e.Command)
}

// Is returns true if the target error is ErrDirtyWorkingTree
func (e *DirtyWorkingTreeError) Is(target error) bool {
	return target == ErrDirtyWorkingTree
}

// NewDirtyWorkingTreeError creates a new DirtyWorkingTreeError
func NewDirtyWorkingTreeError(command string) *DirtyWorkingTreeError {
	return &DirtyWorkingTreeError{Command: command}
}

// StateVersionError reports a state file written by a newer release
type StateVersionError struct {
	Path    string
	Version int
	Max     int
}

func (e *StateVersionError) Error() string {
	return fmt.Sprintf("state file %s has version %d but this release reads up to version %d; upgrade git-stack to use this repository", e.Path, e.Version, e.Max)
}

// Is returns true if the target error is ErrUnsupportedStateVersion
func (e *StateVersionError) Is(target error) bool {
	return target == ErrUnsupportedStateVersion
}

// NewStateVersionError creates a new StateVersionError
func NewStateVersionError(path string, version, maxVersion int) *StateVersionError {
	return &StateVersionError{Path: path, Version: version, Max: maxVersion}
}

// RebaseConflictError represents an error when a rebase encounters a conflict
type RebaseConflictError struct {
	BranchName string
	Message    string
}

func (e *RebaseConflictError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("rebase conflict on branch %s: %s", e.BranchName, e.Message)
	}
	return fmt.Sprintf("rebase conflict on branch %s", e.BranchName)
}

// Is returns true if the target error is ErrRebaseConflict
func (e *RebaseConflictError) Is(target error) bool {
	return target == ErrRebaseConflict
}

// NewRebaseConflictError creates a new RebaseConflictError
func NewRebaseConflictError(branchName string, message string) *RebaseConflictError {
	return &RebaseConflictError{
		BranchName: branchName,
		Message:    message,
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
