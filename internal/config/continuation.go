package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ResumeState records a restack run that stopped on a rebase conflict so a
// later `git-stack continue` can finish it. It is written before control
// returns to the user and removed once the run completes or is aborted.
type ResumeState struct {
	// PausedBranch is the branch whose rebase hit the conflict
	PausedBranch string `json:"pausedBranch"`
	// RebasedBase is the parent commit the branch is being rebased onto;
	// it becomes the branch anchor once the rebase finishes
	RebasedBase string `json:"rebasedBase"`
	// Remaining lists the branches still queued after the paused one,
	// in restack order
	Remaining []string `json:"remaining,omitempty"`
	// Push carries the --push flag across the interruption
	Push bool `json:"push,omitempty"`
	// ReturnBranch is the branch that was checked out when the run started
	ReturnBranch string `json:"returnBranch,omitempty"`
	// RunID namespaces the backup refs written during this run
	RunID string `json:"runId,omitempty"`
}

func resumePath(gitDir string) string {
	return filepath.Join(gitDir, "gitstack", "continue.json")
}

// GetResumeState reads the resume state from disk
func GetResumeState(gitDir string) (*ResumeState, error) {
	data, err := os.ReadFile(resumePath(gitDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no restack in progress")
		}
		return nil, fmt.Errorf("failed to read resume state: %w", err)
	}

	var state ResumeState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse resume state: %w", err)
	}
	return &state, nil
}

// HasResumeState reports whether a resume state file exists
func HasResumeState(gitDir string) bool {
	_, err := os.Stat(resumePath(gitDir))
	return err == nil
}

// PersistResumeState writes the resume state to disk
func PersistResumeState(gitDir string, state *ResumeState) error {
	path := resumePath(gitDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal resume state: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// ClearResumeState removes the resume state file
func ClearResumeState(gitDir string) error {
	err := os.Remove(resumePath(gitDir))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear resume state: %w", err)
	}
	return nil
}
