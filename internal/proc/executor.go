package proc

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"time"
)

// DefaultWaitDelay is how long a child gets to exit after being interrupted
// before it is killed.
const DefaultWaitDelay = 5 * time.Second

// Runner runs a command to completion and reports its exit status.
// A non-nil error means the command could not be run at all.
type Runner interface {
	Run(ctx context.Context, c Command) (int, error)
}

// Exec runs commands as child processes.
type Exec struct {
	WaitDelay time.Duration
}

// Run starts c and blocks until it exits. When ctx is cancelled the child
// receives an interrupt, so a foreground tool such as the serial terminal can
// shut down the same way it would on Ctrl-C.
func (e Exec) Run(ctx context.Context, c Command) (int, error) {
	if c.Path == "" {
		return -1, errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Dir = c.Dir
	cmd.Stdin = c.Stdin
	cmd.Stdout = c.Stdout
	cmd.Stderr = c.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = e.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		// Killed by a signal.
		if code < 0 {
			code = 1
		}
		return code, nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

// IsNotFound reports whether err means the tool binary does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
