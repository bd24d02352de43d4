//go:build windows

package utils

import (
	"os/exec"
)

// OpenBrowser opens url in the user's default browser via `start`.
func OpenBrowser(url string) error {
	return exec.Command("cmd", "/c", "start", url).Run()
}
