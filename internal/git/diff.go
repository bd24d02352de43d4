package git

import (
	"fmt"
)

// IsDiffEmpty checks if there are no differences between a branch and a base revision
func IsDiffEmpty(branchName, baseRevision string) (bool, error) {
	branchRev, err := GetRevision(branchName)
	if err != nil {
		return false, fmt.Errorf("failed to get branch revision: %w", err)
	}

	if branchRev == baseRevision {
		return true, nil
	}

	// diff --quiet returns non-zero if there are differences
	_, err = RunGitCommand("diff", "--quiet", baseRevision, branchRev)
	if err != nil {
		return false, nil
	}

	return true, nil
}

// ShowDiff runs git diff base...branch, the changes the branch introduces
// since it diverged, with output connected to the terminal so git's pager
// and colors apply.
func ShowDiff(base, branchName string) error {
	return RunGitCommandInteractive("diff", fmt.Sprintf("%s...%s", base, branchName))
}

// GetDiffStat returns the --stat summary of what branchName adds over base.
func GetDiffStat(base, branchName string) (string, error) {
	output, err := RunGitCommand("diff", "--stat", fmt.Sprintf("%s...%s", base, branchName))
	if err != nil {
		return "", fmt.Errorf("failed to diff %s...%s: %w", base, branchName, err)
	}
	return output, nil
}
