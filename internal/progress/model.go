// Package progress shows a spinner on the terminal while a captured,
// non-interactive step such as the binary conversion runs.
package progress

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

var (
	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")) // Pinkish

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Grey
)

// Model is the bubbletea state of one running step.
type Model struct {
	Title   string
	Spinner spinner.Model
	Done    bool
	Err     error
}

// NewModel returns the initial state for a step titled title.
func NewModel(title string) Model {
	return Model{
		Title:   title,
		Spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(spinnerStyle)),
	}
}
