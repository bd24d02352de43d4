// Package actions implements the git-stack commands.
//
// Each action corresponds to one command (create, restack, sync, ...) and
// orchestrates the engine, git, and github packages. Actions accept a
// runtime.Context carrying the engine, runner, and logger; they hold no state
// of their own. A restack that pauses on a conflict records its position
// through the config package so `git-stack continue` can pick the walk back
// up.
package actions
