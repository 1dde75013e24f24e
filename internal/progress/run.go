package progress

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// Enabled reports whether w is an interactive terminal worth drawing on.
func Enabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run calls fn while a spinner titled title is drawn on out. When out is not
// a terminal fn is simply called. The spinner never reads input, so it does
// not compete with the step for the keyboard.
func Run(ctx context.Context, out io.Writer, title string, fn func() error) error {
	if !Enabled(out) {
		return fn()
	}

	p := tea.NewProgram(NewModel(title),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)

	result := make(chan error, 1)
	go func() {
		err := fn()
		result <- err
		p.Send(MsgDone{Err: err})
	}()

	// An early stop of the program (interrupt) only ends the drawing; the
	// step's own result is what counts.
	_, _ = p.Run()
	return <-result
}
