package model

import (
	"errors"
	"fmt"
)

// Exit statuses owned by pros-upload itself. Child failures propagate the
// child's own status instead.
const (
	ExitSuccess  = 0
	ExitFailure  = 1
	ExitNotFound = 127
)

// FailureKind classifies why a run stopped.
type FailureKind int

const (
	ConversionFailure FailureKind = iota + 1
	PersistenceFailure
	UnrecognizedFlag
	MissingArgument
	InvalidValue
	ChildProcessFailure
	ConfigFailure
)

func (k FailureKind) String() string {
	switch k {
	case ConversionFailure:
		return "conversion failed"
	case PersistenceFailure:
		return "cannot write project descriptor"
	case UnrecognizedFlag:
		return "unrecognized flag"
	case MissingArgument:
		return "missing argument"
	case InvalidValue:
		return "invalid value"
	case ChildProcessFailure:
		return "child process failed"
	case ConfigFailure:
		return "invalid configuration"
	default:
		return fmt.Sprintf("failure(%d)", int(k))
	}
}

// IsUsage reports whether the failure comes from malformed command-line input.
func (k FailureKind) IsUsage() bool {
	return k == UnrecognizedFlag || k == MissingArgument || k == InvalidValue
}

// Failure is a fatal, non-retried error that ends the run with Code.
type Failure struct {
	Kind  FailureKind
	Code  int
	Token string // offending command-line token, usage failures only
	Err   error
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	msg := f.Kind.String()
	if f.Token != "" {
		msg += ": " + f.Token
	}
	if f.Err != nil {
		msg += ": " + f.Err.Error()
	}
	return msg
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.Err
}

// Failf builds a Failure with a formatted cause.
func Failf(kind FailureKind, code int, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Code: code, Err: fmt.Errorf(format, args...)}
}

// ExitCode maps any error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var f *Failure
	if errors.As(err, &f) && f.Code != ExitSuccess {
		return f.Code
	}
	return ExitFailure
}
