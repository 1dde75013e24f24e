package progress

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// MsgDone reports that the step finished.
type MsgDone struct {
	Err error
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update handles events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgDone:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		if m.Done {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}
