package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitColors pins the lipgloss color profile to what the terminal
// actually supports. Honors NO_COLOR and CLICOLOR_FORCE.
func InitColors() {
	if termenv.EnvNoColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	lipgloss.SetColorProfile(termenv.EnvColorProfile())
}
