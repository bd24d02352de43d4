//go:build darwin

package utils

import (
	"os/exec"
)

// OpenBrowser opens url in the user's default browser via `open`.
func OpenBrowser(url string) error {
	return exec.Command("open", url).Run()
}
