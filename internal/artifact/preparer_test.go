package artifact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosupload/internal/model"
	"prosupload/internal/proc"
	"prosupload/internal/proc/proctest"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBinaryPath_AppendsExtension(t *testing.T) {
	for _, src := range []string{
		"build/robot.elf",
		"robot",
		"target/armv7a-vexos-eabi/release/my robot",
		"",
	} {
		assert.Equal(t, src+".bin", BinaryPath(src), "source %q", src)
	}
}

func TestNewArtifact_DoesNotRunTool(t *testing.T) {
	a := NewArtifact("build/robot.elf")
	assert.Equal(t, model.BuildArtifact{
		SourcePath:      "build/robot.elf",
		BinaryPath:      "build/robot.elf.bin",
		StrippedSection: ".hot_init",
	}, a)
}

func TestPrepare_InvokesObjcopy(t *testing.T) {
	runner := proctest.New()
	p := &Preparer{Runner: runner, Dir: "/work", Logger: quietLogger()}

	a, err := p.Prepare(context.Background(), "build/robot.elf")
	require.NoError(t, err)
	assert.Equal(t, "build/robot.elf.bin", a.BinaryPath)

	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "/work", runner.Calls[0].Dir)
	assert.Equal(t, []string{
		"arm-none-eabi-objcopy", "-O", "binary", "-R", ".hot_init",
		"build/robot.elf", "build/robot.elf.bin",
	}, runner.Calls[0].Argv())
}

func TestPrepare_UsesConfiguredTool(t *testing.T) {
	runner := proctest.New()
	p := &Preparer{Runner: runner, Objcopy: []string{"rust-objcopy", "--quiet"}, Logger: quietLogger()}

	_, err := p.Prepare(context.Background(), "robot")
	require.NoError(t, err)
	assert.Equal(t, []string{"rust-objcopy", "--quiet", "-O", "binary", "-R", ".hot_init", "robot", "robot.bin"},
		runner.Calls[0].Argv())
}

func TestPrepare_NonZeroExitIsConversionFailure(t *testing.T) {
	runner := proctest.New()
	runner.Results["arm-none-eabi-objcopy"] = proctest.Result{Code: 2, Stderr: "file format not recognized\n"}
	p := &Preparer{Runner: runner, Logger: quietLogger()}

	_, err := p.Prepare(context.Background(), "robot.elf")
	require.Error(t, err)

	var f *model.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, model.ConversionFailure, f.Kind)
	assert.Equal(t, 2, f.Code)
	assert.Contains(t, err.Error(), "file format not recognized")
}

func TestPrepare_MissingToolIsConversionFailure(t *testing.T) {
	runner := proctest.New()
	runner.Results["arm-none-eabi-objcopy"] = proctest.Result{Err: &exec.Error{Name: "arm-none-eabi-objcopy", Err: exec.ErrNotFound}}
	p := &Preparer{Runner: runner, Logger: quietLogger()}

	_, err := p.Prepare(context.Background(), "robot.elf")
	var f *model.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, model.ConversionFailure, f.Kind)
	assert.Equal(t, model.ExitNotFound, f.Code)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestPrepare_CapturesToolOutput(t *testing.T) {
	runner := proctest.New()
	runner.OnRun = func(c proc.Command) {
		assert.NotNil(t, c.Stdout)
		assert.NotNil(t, c.Stderr)
	}
	p := &Preparer{Runner: runner, Logger: quietLogger()}
	_, err := p.Prepare(context.Background(), "robot.elf")
	require.NoError(t, err)
}
