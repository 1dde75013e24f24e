package progress

// View renders the spinner line. It is empty once the step is done so the
// line is cleared before other output follows.
func (m Model) View() string {
	if m.Done {
		return ""
	}
	return m.Spinner.View() + " " + titleStyle.Render(m.Title) + "\n"
}
