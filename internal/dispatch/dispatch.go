// Package dispatch runs the pros uploader and, on request, the serial
// terminal afterwards.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"prosupload/internal/model"
	"prosupload/internal/proc"
)

// Args builds the uploader flags for req. Unset fields are left out so the
// uploader's own defaults apply. The order is always slot, name, after.
func Args(req model.UploadRequest) []string {
	var args []string
	if req.Slot != nil {
		args = append(args, "--slot", strconv.Itoa(*req.Slot))
	}
	if req.Name != nil {
		args = append(args, "--name", *req.Name)
	}
	if req.After != nil {
		args = append(args, "--after", string(*req.After))
	}
	return args
}

// Dispatcher owns the uploader and terminal invocations of one run.
type Dispatcher struct {
	Runner   proc.Runner
	Upload   []string
	Terminal []string
	Dir      string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// DispatchDefaults runs the uploader without any flags.
func (d *Dispatcher) DispatchDefaults(ctx context.Context) (int, error) {
	return d.run(ctx, "upload", d.Upload)
}

// Dispatch runs the uploader with the flags of req. When req.OpenSerial is
// set and the upload succeeded, the terminal runs next and its status is
// returned instead.
func (d *Dispatcher) Dispatch(ctx context.Context, req model.UploadRequest) (int, error) {
	code, err := d.run(ctx, "upload", d.Upload, Args(req)...)
	if err != nil || code != 0 || !req.OpenSerial {
		return code, err
	}
	return d.run(ctx, "terminal", d.Terminal)
}

func (d *Dispatcher) run(ctx context.Context, step string, argv []string, extra ...string) (int, error) {
	cmd := proc.NewCommand(argv, extra...)
	cmd.Dir = d.Dir
	cmd.Stdin = d.Stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	log := d.logger().With("step", step)
	log.Info("running", "cmd", cmd.String())
	code, err := d.Runner.Run(ctx, cmd)
	if err != nil {
		status := model.ExitFailure
		if proc.IsNotFound(err) {
			status = model.ExitNotFound
		}
		return status, &model.Failure{
			Kind: model.ChildProcessFailure,
			Code: status,
			Err:  fmt.Errorf("%s: %w", step, err),
		}
	}
	if code != 0 {
		log.Warn("exited with failure", "status", code)
	} else {
		log.Debug("finished", "status", code)
	}
	return code, nil
}

func (d *Dispatcher) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}
