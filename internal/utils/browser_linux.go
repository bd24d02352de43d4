//go:build linux

package utils

import (
	"os/exec"
)

// OpenBrowser opens url in the user's default browser via `xdg-open`.
func OpenBrowser(url string) error {
	return exec.Command("xdg-open", url).Run()
}
