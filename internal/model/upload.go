package model

// Version of pros-upload.
const Version = "0.1.0"

// Fixed values of the kernel template recorded in project.pros.
const (
	TargetV5        = "v5"
	KernelOrigin    = "pros-mainline"
	KernelTemplate  = "kernel"
	KernelVersion   = "3.8.0"
	BinaryExtension = ".bin"

	// HotInitSection only serves hot-reload builds and is removed from the
	// uploaded image.
	HotInitSection = ".hot_init"
)

// BuildArtifact describes one converted executable.
type BuildArtifact struct {
	SourcePath      string // executable produced by the build
	BinaryPath      string // SourcePath + BinaryExtension
	StrippedSection string // section removed during conversion
}

// Template is the kernel template entry of a project descriptor.
type Template struct {
	Location         string
	Origin           string
	Output           string // binary artifact the uploader sends
	Name             string
	Version          string
	SupportedKernels *string // always null for a local kernel template
	SystemFiles      []string
	UserFiles        []string
	Target           string
}

// ProjectDescriptor is the content of project.pros.
type ProjectDescriptor struct {
	ProjectName   string
	Target        string
	Template      Template
	UploadOptions map[string]string
}

// AfterAction is what the brain does once the upload completes.
type AfterAction string

const (
	AfterRun    AfterAction = "run"
	AfterScreen AfterAction = "screen"
	AfterNone   AfterAction = "none"
)

// UploadRequest holds the uploader options given on the command line.
// A nil field was never given and is left to the uploader's default.
type UploadRequest struct {
	Slot       *int
	Name       *string
	After      *AfterAction
	OpenSerial bool
}

// IsZero reports whether no option was given at all.
func (r UploadRequest) IsZero() bool {
	return r.Slot == nil && r.Name == nil && r.After == nil && !r.OpenSerial
}
