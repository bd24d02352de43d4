package actions

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"gitstack.dev/gitstack/internal/git"
	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
)

// StatusAction prints a detail tree over the tracked branches: short SHA,
// position relative to the remote, and whether a branch is merged into the
// trunk or needs a restack. It fetches first so the markers are current.
func StatusAction(ctx *runtime.Context) error {
	remote := ResolveRemote(ctx)
	remoteShas := map[string]string{}
	if remote != "" {
		if err := git.Fetch(ctx.Context, remote); err != nil {
			ctx.Splog.Warn("Could not fetch %s: %v. Remote positions may be stale.", remote, err)
		}
		// One ref walk instead of a rev-parse per branch.
		if shas, err := git.FetchRemoteShas(remote); err == nil {
			remoteShas = shas
		}
	}

	current, err := ctx.Engine.CurrentBranch()
	if err != nil {
		current = ""
	}
	trunk := ctx.Engine.Trunk()

	root := treeprint.NewWithRoot(statusLine(ctx, trunk, current, remote, remoteShas))
	appendChildStatuses(ctx, root, trunk, current, remote, remoteShas)
	ctx.Splog.Page(root.String())

	if current != "" && current != trunk && !ctx.Engine.IsBranchTracked(current) {
		ctx.Splog.Info("The current branch %s is not in a stack.", output.ColorBranchName(current, false))
		ctx.Splog.Tip("Run %s to add it.", output.ColorCyan("git-stack mount <parent>"))
	}
	return nil
}

func appendChildStatuses(ctx *runtime.Context, tree treeprint.Tree, branchName, current, remote string, remoteShas map[string]string) {
	for _, child := range ctx.Engine.GetChildren(branchName) {
		node := tree.AddBranch(statusLine(ctx, child, current, remote, remoteShas))
		appendChildStatuses(ctx, node, child, current, remote, remoteShas)
	}
}

// statusLine renders one branch: name, short sha, stack and remote markers.
func statusLine(ctx *runtime.Context, branchName, current, remote string, remoteShas map[string]string) string {
	parts := []string{output.ColorBranchName(branchName, branchName == current)}

	sha, err := git.GetShortRevision(branchName)
	if err != nil {
		// Tracked in the state file but deleted from git.
		parts = append(parts, output.ColorRed("(gone from git)"))
		return strings.Join(parts, " ")
	}
	parts = append(parts, output.ColorYellow(sha))

	if !ctx.Engine.IsTrunk(branchName) {
		if merged, err := ctx.Engine.IsMergedIntoTrunk(ctx.Context, branchName); err == nil && merged {
			parts = append(parts, output.ColorMagenta("(merged into "+ctx.Engine.Trunk()+")"))
		} else if restacked, err := ctx.Engine.IsBranchRestacked(branchName); err == nil && !restacked {
			parts = append(parts, output.ColorNeedsRestack("(needs restack)"))
		}
	}

	if remote != "" {
		if marker := remoteMarker(branchName, remote, remoteShas); marker != "" {
			parts = append(parts, marker)
		}
	}
	return strings.Join(parts, " ")
}

// remoteMarker compares the branch tip against its remote-tracking ref.
func remoteMarker(branchName, remote string, remoteShas map[string]string) string {
	localSha, err := git.GetRevision(branchName)
	if err != nil {
		return ""
	}
	remoteSha, ok := remoteShas[branchName]
	if !ok {
		if hasUpstream(branchName) {
			// An upstream was configured but fetch --prune removed it, which
			// is what a branch deleted after merge looks like.
			return output.ColorRed(fmt.Sprintf("(%s: gone)", remote))
		}
		return output.ColorDim("(not pushed)")
	}
	if remoteSha == localSha {
		return output.ColorGreen(fmt.Sprintf("(%s: in sync)", remote))
	}

	if behindRemote, err := git.IsAncestor(remoteSha, localSha); err == nil && behindRemote {
		if ahead, err := git.CountCommits(remoteSha, localSha); err == nil {
			return output.ColorYellow(fmt.Sprintf("(%s: ahead %d)", remote, ahead))
		}
		return output.ColorYellow(fmt.Sprintf("(%s: ahead)", remote))
	}
	if aheadRemote, err := git.IsAncestor(localSha, remoteSha); err == nil && aheadRemote {
		if behind, err := git.CountCommits(localSha, remoteSha); err == nil {
			return output.ColorYellow(fmt.Sprintf("(%s: behind %d)", remote, behind))
		}
		return output.ColorYellow(fmt.Sprintf("(%s: behind)", remote))
	}
	return output.ColorRed(fmt.Sprintf("(%s: diverged)", remote))
}

func hasUpstream(branchName string) bool {
	out, err := git.RunGitCommand("config", "--get", "branch."+branchName+".remote")
	return err == nil && strings.TrimSpace(out) != ""
}
