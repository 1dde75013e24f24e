package proc

import (
	"io"

	"github.com/alessio/shellescape"
)

// Command describes one external tool invocation.
type Command struct {
	Path string
	Args []string
	Dir  string // empty means the current directory

	// Nil streams are connected to the null device.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewCommand builds a Command from a configured argv (tool name plus any
// fixed leading arguments, e.g. "pros upload") followed by extra arguments.
func NewCommand(argv []string, extra ...string) Command {
	var c Command
	if len(argv) == 0 {
		return c
	}
	c.Path = argv[0]
	c.Args = make([]string, 0, len(argv)-1+len(extra))
	c.Args = append(c.Args, argv[1:]...)
	c.Args = append(c.Args, extra...)
	return c
}

// Argv returns the full argument vector including the tool itself.
func (c Command) Argv() []string {
	return append([]string{c.Path}, c.Args...)
}

// String renders the command the way a user would type it in a shell.
func (c Command) String() string {
	return shellescape.QuoteCommand(c.Argv())
}
