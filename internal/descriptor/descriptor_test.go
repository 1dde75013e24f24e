package descriptor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prosupload/internal/artifact"
	"prosupload/internal/model"
)

const robotDescriptor = `{
    "py/object": "pros.conductor.project.Project",
    "py/state": {
        "project_name": "myproj",
        "target": "v5",
        "templates": {
            "kernel": {
                "location": "",
                "metadata": {
                    "origin": "pros-mainline",
                    "output": "build/robot.elf.bin"
                },
                "name": "kernel",
                "py/object": "pros.conductor.templates.local_template.LocalTemplate",
                "supported_kernels": null,
                "system_files": [],
                "target": "v5",
                "user_files": [],
                "version": "3.8.0"
            }
        },
        "upload_options": {}
    }
}
`

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var v map[string]any
	require.NoError(t, json.Unmarshal(data, &v))
	return v
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		hint string
		want string
	}{
		{"myproj", "myproj"},
		{"target/myproj", "myproj"},
		{"a/b/c", "b/c"},
		{`dir\proj`, "proj"},
		{"/abs", "abs"},
		{"trailing/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.hint, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectName(tt.hint))
		})
	}
}

func TestMarshal_MatchesUploaderSchema(t *testing.T) {
	d := New(artifact.NewArtifact("build/robot.elf"), "myproj")

	got, err := Marshal(d)
	require.NoError(t, err)

	assert.Equal(t, robotDescriptor, string(got))
	if diff := cmp.Diff(decode(t, []byte(robotDescriptor)), decode(t, got)); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_NilListsBecomeEmpty(t *testing.T) {
	d := model.ProjectDescriptor{
		ProjectName: "p",
		Target:      model.TargetV5,
		Template:    model.Template{Name: model.KernelTemplate},
	}
	got, err := Marshal(d)
	require.NoError(t, err)

	kernel := decode(t, got)["py/state"].(map[string]any)["templates"].(map[string]any)["kernel"].(map[string]any)
	assert.Equal(t, []any{}, kernel["system_files"])
	assert.Equal(t, []any{}, kernel["user_files"])
	assert.Nil(t, kernel["supported_kernels"])
	assert.Equal(t, map[string]any{}, decode(t, got)["py/state"].(map[string]any)["upload_options"])
}

func TestWriter_WritesDescriptor(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Dir: dir}

	path, err := w.Write(artifact.NewArtifact("build/robot.elf"), "myproj")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, robotDescriptor, string(data))
}

func TestWriter_OverwritesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	w := Writer{Dir: dir}
	require.NoError(t, os.WriteFile(w.Path(), []byte(`{"stale": true, "upload_options": {"slot": 9}}`), 0o644))

	_, err := w.Write(artifact.NewArtifact("first.elf"), "one")
	require.NoError(t, err)
	_, err = w.Write(artifact.NewArtifact("second.elf"), "ns/two")
	require.NoError(t, err)

	data, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	v := decode(t, data)
	assert.NotContains(t, v, "stale")

	state := v["py/state"].(map[string]any)
	assert.Equal(t, "two", state["project_name"])
	assert.Equal(t, map[string]any{}, state["upload_options"])
	kernel := state["templates"].(map[string]any)["kernel"].(map[string]any)
	assert.Equal(t, "second.elf.bin", kernel["metadata"].(map[string]any)["output"])
}

func TestWriter_FailureIsPersistenceFailure(t *testing.T) {
	w := Writer{Dir: filepath.Join(t.TempDir(), "does", "not", "exist")}

	_, err := w.Write(artifact.NewArtifact("robot.elf"), "p")
	require.Error(t, err)

	var f *model.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, model.PersistenceFailure, f.Kind)
	assert.Equal(t, model.ExitFailure, f.Code)
	assert.NoFileExists(t, w.Path())
}
