package actions

import (
	"fmt"

	"gitstack.dev/gitstack/internal/output"
	"gitstack.dev/gitstack/internal/runtime"
	"gitstack.dev/gitstack/internal/tui"
	"gitstack.dev/gitstack/internal/utils"
)

// CheckoutOptions contains options for the checkout command
type CheckoutOptions struct {
	// BranchName is the branch to switch to. Empty opens the picker.
	BranchName string
}

// CheckoutAction switches to a branch, creating and tracking it when the
// name is new. With no name it offers a picker over the tracked stacks.
func CheckoutAction(ctx *runtime.Context, opts CheckoutOptions) error {
	if err := utils.CheckRebaseInProgress(ctx.Context); err != nil {
		return err
	}

	name := opts.BranchName
	if name == "" {
		picked, err := pickBranch(ctx)
		if err != nil {
			return err
		}
		name = picked
	}

	current, err := ctx.Engine.CurrentBranch()
	if err != nil {
		current = ""
	}
	if name == current {
		ctx.Splog.Info("Already on %s.", output.ColorBranchName(name, true))
		return nil
	}

	if err := EnsureCleanTree(ctx, "switch branches"); err != nil {
		return err
	}

	created, err := ctx.Engine.CheckoutBranch(ctx.Context, name)
	if err != nil {
		return err
	}
	if created {
		ctx.Splog.Info("Created %s on %s.",
			output.ColorBranchName(name, true),
			output.ColorBranchName(current, false))
	} else {
		ctx.Splog.Info("Switched to %s.", output.ColorBranchName(name, true))
	}
	return nil
}

// pickBranch lists the trunk and every tracked branch in stack order and
// returns the user's selection.
func pickBranch(ctx *runtime.Context) (string, error) {
	eng := ctx.Engine
	current, _ := eng.CurrentBranch()

	names, err := eng.RestackScope(eng.Trunk(), false)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no branches are tracked yet; run 'git-stack create <name>' to start a stack")
	}

	choices := make([]tui.BranchChoice, 0, len(names)+1)
	initialIndex := 0

	trunkDisplay := eng.Trunk()
	if current == eng.Trunk() {
		trunkDisplay += " (current)"
	}
	choices = append(choices, tui.BranchChoice{Display: trunkDisplay, Value: eng.Trunk()})

	for _, name := range names {
		display := name
		if restacked, err := eng.IsBranchRestacked(name); err == nil && !restacked {
			display += " (needs restack)"
		}
		if name == current {
			display += " (current)"
			initialIndex = len(choices)
		}
		choices = append(choices, tui.BranchChoice{Display: display, Value: name})
	}

	return tui.PromptBranchSelection("Check out a branch", choices, initialIndex)
}
