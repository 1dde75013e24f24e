// Package descriptor writes project.pros, the project file the pros uploader
// reads from the working directory.
//
// The file is a jsonpickle document: the Project record is wrapped in a
// py/object + py/state envelope and each LocalTemplate carries its own
// py/object tag next to its fields. Key names and nesting are the contract
// with pros-cli 3.x and must not change.
package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"prosupload/internal/model"
)

// FileName is the descriptor's name inside the run directory.
const FileName = "project.pros"

const (
	projectClass  = "pros.conductor.project.Project"
	templateClass = "pros.conductor.templates.local_template.LocalTemplate"
)

type projectEnvelope struct {
	Object string       `json:"py/object"`
	State  projectState `json:"py/state"`
}

type projectState struct {
	ProjectName   string                   `json:"project_name"`
	Target        string                   `json:"target"`
	Templates     map[string]localTemplate `json:"templates"`
	UploadOptions map[string]string        `json:"upload_options"`
}

type localTemplate struct {
	Location         string           `json:"location"`
	Metadata         templateMetadata `json:"metadata"`
	Name             string           `json:"name"`
	Object           string           `json:"py/object"`
	SupportedKernels *string          `json:"supported_kernels"`
	SystemFiles      []string         `json:"system_files"`
	Target           string           `json:"target"`
	UserFiles        []string         `json:"user_files"`
	Version          string           `json:"version"`
}

type templateMetadata struct {
	Origin string `json:"origin"`
	Output string `json:"output"`
}

// ProjectName keeps only what follows the first path separator of hint.
func ProjectName(hint string) string {
	if i := strings.IndexAny(hint, `/\`); i >= 0 {
		return hint[i+1:]
	}
	return hint
}

// New returns the descriptor for artifact under the given project name.
func New(artifact model.BuildArtifact, projectName string) model.ProjectDescriptor {
	return model.ProjectDescriptor{
		ProjectName: projectName,
		Target:      model.TargetV5,
		Template: model.Template{
			Origin:      model.KernelOrigin,
			Output:      artifact.BinaryPath,
			Name:        model.KernelTemplate,
			Version:     model.KernelVersion,
			SystemFiles: []string{},
			UserFiles:   []string{},
			Target:      model.TargetV5,
		},
		UploadOptions: map[string]string{},
	}
}

// Marshal encodes d in the on-disk format.
func Marshal(d model.ProjectDescriptor) ([]byte, error) {
	tmpl := d.Template
	env := projectEnvelope{
		Object: projectClass,
		State: projectState{
			ProjectName: d.ProjectName,
			Target:      d.Target,
			Templates: map[string]localTemplate{
				tmpl.Name: {
					Location:         tmpl.Location,
					Metadata:         templateMetadata{Origin: tmpl.Origin, Output: tmpl.Output},
					Name:             tmpl.Name,
					Object:           templateClass,
					SupportedKernels: tmpl.SupportedKernels,
					SystemFiles:      nonNil(tmpl.SystemFiles),
					Target:           tmpl.Target,
					UserFiles:        nonNil(tmpl.UserFiles),
					Version:          tmpl.Version,
				},
			},
			UploadOptions: d.UploadOptions,
		},
	}
	if env.State.UploadOptions == nil {
		env.State.UploadOptions = map[string]string{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Writer replaces the descriptor in Dir.
type Writer struct {
	Dir string
}

// Path is where Write puts the descriptor.
func (w Writer) Path() string {
	return filepath.Join(w.Dir, FileName)
}

// Write overwrites the descriptor with one built only from this run's
// inputs. The replacement is atomic: on failure the previous file is left
// as it was. Errors are model.PersistenceFailure.
func (w Writer) Write(artifact model.BuildArtifact, projectHint string) (string, error) {
	data, err := Marshal(New(artifact, ProjectName(projectHint)))
	if err != nil {
		return "", &model.Failure{Kind: model.PersistenceFailure, Code: model.ExitFailure, Err: err}
	}
	path := w.Path()
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", &model.Failure{
			Kind: model.PersistenceFailure,
			Code: model.ExitFailure,
			Err:  fmt.Errorf("write %s: %w", path, err),
		}
	}
	return path, nil
}
