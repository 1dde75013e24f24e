// Package app runs one pros-upload invocation: parse, convert, describe,
// upload and optionally open the serial terminal.
//
// The steps run strictly in sequence and the first failure ends the run.
// Parsing comes first and has no side effects, so help and malformed
// command lines never start a tool or touch project.pros.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tcnksm/go-latest"

	"prosupload/internal/artifact"
	"prosupload/internal/cli"
	"prosupload/internal/config"
	"prosupload/internal/descriptor"
	"prosupload/internal/dispatch"
	"prosupload/internal/kernel"
	"prosupload/internal/model"
	"prosupload/internal/progress"
	"prosupload/internal/proc"
)

// App holds the dependencies of a run.
type App struct {
	Dir    string // run directory; project.pros is written here
	Getenv func(string) string
	Runner proc.Runner

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// KernelReleases answers --check-kernel.
	KernelReleases latest.Source
}

// Run executes args (without the program name) and returns the exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	inv, err := cli.Parse(args)
	if err != nil {
		var f *model.Failure
		if errors.As(err, &f) && f.Kind.IsUsage() {
			cli.ReportUsageError(a.Stderr, err)
		} else {
			cli.ReportError(a.Stderr, err)
		}
		return model.ExitCode(err)
	}

	switch inv.Action {
	case cli.ActionHelp:
		cli.Usage(a.Stdout)
		return model.ExitFailure
	case cli.ActionVersion:
		fmt.Fprintf(a.Stdout, "pros-upload version %s (kernel template %s)\n", model.Version, model.KernelVersion)
		return model.ExitSuccess
	case cli.ActionCheckKernel:
		src := a.KernelReleases
		if src == nil {
			src = kernel.Releases()
		}
		if err := kernel.Check(a.Stdout, src); err != nil {
			cli.ReportError(a.Stderr, err)
			return model.ExitFailure
		}
		return model.ExitSuccess
	}

	cfg, err := config.Load(a.Dir, a.getenv)
	if err != nil {
		err = &model.Failure{Kind: model.ConfigFailure, Code: model.ExitFailure, Err: err}
		cli.ReportError(a.Stderr, err)
		return model.ExitCode(err)
	}

	logger := runLogger(cfg.Log, inv.Verbose, a.Stderr)

	code, err := a.upload(ctx, inv, cfg, logger)
	if err != nil {
		logger.Debug("run failed", "error", err)
		cli.ReportError(a.Stderr, err)
	}
	return code
}

func (a *App) upload(ctx context.Context, inv cli.Invocation, cfg config.Config, logger *slog.Logger) (int, error) {
	prep := &artifact.Preparer{
		Runner:  a.Runner,
		Objcopy: cfg.Tools.Objcopy,
		Dir:     a.Dir,
		Logger:  logger,
	}
	var built model.BuildArtifact
	err := progress.Run(ctx, a.Stderr, "Converting "+inv.ExecutablePath, func() error {
		var err error
		built, err = prep.Prepare(ctx, inv.ExecutablePath)
		return err
	})
	if err != nil {
		return model.ExitCode(err), err
	}

	path, err := descriptor.Writer{Dir: a.Dir}.Write(built, inv.ProjectName)
	if err != nil {
		return model.ExitCode(err), err
	}
	logger.Info("wrote project descriptor", "path", path, "output", built.BinaryPath)

	d := &dispatch.Dispatcher{
		Runner:   a.Runner,
		Upload:   cfg.Tools.Upload,
		Terminal: cfg.Tools.Terminal,
		Dir:      a.Dir,
		Stdin:    a.Stdin,
		Stdout:   a.Stdout,
		Stderr:   a.Stderr,
		Logger:   logger,
	}
	if inv.Defaults {
		return d.DispatchDefaults(ctx)
	}
	return d.Dispatch(ctx, inv.Request)
}

func (a *App) getenv(key string) string {
	if a.Getenv == nil {
		return ""
	}
	return a.Getenv(key)
}
