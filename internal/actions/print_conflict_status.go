package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
)

// printConflictStatus tells the user where the restack stopped and how to get
// it moving again.
func printConflictStatus(ctx *runtime.Context, branchName string, remaining int) {
	splog := ctx.Splog

	splog.Info("%s", output.ColorRed(fmt.Sprintf("Hit a conflict while restacking %s.", branchName)))
	if remaining == 1 {
		splog.Info("1 branch is still waiting behind it.")
	} else if remaining > 1 {
		splog.Info("%d branches are still waiting behind it.", remaining)
	}
	splog.Newline()

	if unmerged, err := git.GetUnmergedFiles(ctx.Context); err == nil && len(unmerged) > 0 {
		splog.Info("%s", output.ColorYellow("Unmerged files:"))
		for _, file := range unmerged {
			splog.Info("  %s", output.ColorRed(file))
		}
		splog.Newline()
	}

	if rebaseHead, err := git.GetRebaseHead(); err == nil && rebaseHead != "" {
		if len(rebaseHead) > 7 {
			rebaseHead = rebaseHead[:7]
		}
		splog.Info("%s", output.ColorYellow(fmt.Sprintf("Stopped while replaying %s.", rebaseHead)))
		splog.Newline()
	}

	splog.Info("To finish the restack:")
	splog.Info("(1) resolve the listed conflicts")
	splog.Info("(2) stage the resolutions with %s", output.ColorCyan("git add"))
	splog.Info("(3) run %s to keep going", output.ColorCyan("git-stack continue"))
	splog.Info("Run %s to give up on this restack instead.", output.ColorCyan("git-stack abort"))
}
