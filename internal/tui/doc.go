// Package tui provides the terminal user interface for git-stack.
//
// It handles:
//   - Interactive prompts and selections (using bubbletea)
//   - Structured logging and status reporting (Splog)
//   - Terminal styling and colors (using lipgloss)
//   - Submit progress display
package tui
