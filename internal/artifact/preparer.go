// Package artifact turns a built executable into the raw binary the V5
// loader accepts.
package artifact

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"prosupload/internal/model"
	"prosupload/internal/proc"
)

// DefaultObjcopy is the conversion tool used when none is configured.
var DefaultObjcopy = []string{"arm-none-eabi-objcopy"}

// BinaryPath derives the output path of the conversion from the executable path.
func BinaryPath(sourcePath string) string {
	return sourcePath + model.BinaryExtension
}

// NewArtifact describes the artifact for sourcePath. It does not run anything.
func NewArtifact(sourcePath string) model.BuildArtifact {
	return model.BuildArtifact{
		SourcePath:      sourcePath,
		BinaryPath:      BinaryPath(sourcePath),
		StrippedSection: model.HotInitSection,
	}
}

// ConvertArgs are the objcopy arguments for a.
func ConvertArgs(a model.BuildArtifact) []string {
	return []string{"-O", "binary", "-R", a.StrippedSection, a.SourcePath, a.BinaryPath}
}

// Preparer runs the conversion tool.
type Preparer struct {
	Runner  proc.Runner
	Objcopy []string
	Dir     string
	Logger  *slog.Logger
}

// Prepare converts the executable at sourcePath. Any failure is a
// model.ConversionFailure and no artifact is returned.
func (p *Preparer) Prepare(ctx context.Context, sourcePath string) (model.BuildArtifact, error) {
	a := NewArtifact(sourcePath)

	argv := p.Objcopy
	if len(argv) == 0 {
		argv = DefaultObjcopy
	}
	var output bytes.Buffer
	cmd := proc.NewCommand(argv, ConvertArgs(a)...)
	cmd.Dir = p.Dir
	cmd.Stdout = &output
	cmd.Stderr = &output

	p.logger().Debug("converting executable", "cmd", cmd.String())
	code, err := p.Runner.Run(ctx, cmd)
	if err != nil {
		status := model.ExitFailure
		if proc.IsNotFound(err) {
			status = model.ExitNotFound
		}
		return model.BuildArtifact{}, &model.Failure{
			Kind: model.ConversionFailure,
			Code: status,
			Err:  fmt.Errorf("run %s: %w", cmd.Path, err),
		}
	}
	if code != 0 {
		msg := strings.TrimSpace(output.String())
		if msg == "" {
			msg = "no output"
		}
		return model.BuildArtifact{}, model.Failf(model.ConversionFailure, code,
			"%s exited with status %d: %s", cmd.Path, code, msg)
	}

	p.logger().Debug("converted executable", "source", a.SourcePath, "binary", a.BinaryPath)
	return a, nil
}

func (p *Preparer) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
