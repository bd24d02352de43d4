// Package runtime provides the execution context for git-stack commands.
//
// It assembles the shared dependencies actions run against: the engine over
// the repository's state file, the git runner, the logger, and the GitHub
// client.
package runtime
