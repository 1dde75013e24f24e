// Package proctest provides a scripted proc.Runner for tests.
package proctest

import (
	"context"
	"io"
	"sync"

	"prosupload/internal/proc"
)

// Result is what the fake returns for one tool.
type Result struct {
	Code   int
	Err    error
	Stdout string
	Stderr string
}

// Runner records every command and answers from Results, keyed by the
// command's Path. Unknown tools succeed with status 0.
type Runner struct {
	mu      sync.Mutex
	Results map[string]Result
	Calls   []proc.Command

	// OnRun, when set, is called before the result is returned.
	OnRun func(c proc.Command)
}

// New returns a Runner with no scripted results.
func New() *Runner {
	return &Runner{Results: map[string]Result{}}
}

// Run implements proc.Runner.
func (r *Runner) Run(ctx context.Context, c proc.Command) (int, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, c)
	res := r.Results[c.Path]
	hook := r.OnRun
	r.mu.Unlock()

	if hook != nil {
		hook(c)
	}
	if res.Err != nil {
		return -1, res.Err
	}
	if res.Stdout != "" && c.Stdout != nil {
		io.WriteString(c.Stdout, res.Stdout)
	}
	if res.Stderr != "" && c.Stderr != nil {
		io.WriteString(c.Stderr, res.Stderr)
	}
	return res.Code, nil
}

// Argvs returns the full argument vector of every recorded call.
func (r *Runner) Argvs() [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.Argv())
	}
	return out
}
