package cli

import (
	"strings"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"

	"prosupload/internal/model"
)

// Action is what a parsed command line asks for.
type Action int

const (
	ActionUpload Action = iota
	ActionHelp
	ActionVersion
	ActionCheckKernel
)

// Invocation is the fully parsed command line.
type Invocation struct {
	Action         Action
	ExecutablePath string
	ProjectName    string

	// Defaults is set when nothing follows the positional arguments. The
	// uploader then runs with no flags at all.
	Defaults bool

	Request model.UploadRequest
	Verbose bool
}

// Flag annotations.
const (
	// annotationRest marks a flag whose value is every following token up to
	// the next declared flag, so a program name is never re-split.
	annotationRest = "prosupload/rest"
	// annotationTerminal marks a flag that stops scanning and selects an action.
	annotationTerminal = "prosupload/terminal"
)

var terminalActions = map[string]Action{
	"help":         ActionHelp,
	"version":      ActionVersion,
	"check-kernel": ActionCheckKernel,
}

// NewFlagSet declares every flag pros-upload accepts, in usage order.
func NewFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("pros-upload", pflag.ContinueOnError)
	fs.SortFlags = false

	fs.Int("slot", 0, "Program slot on the brain (uploader default when omitted)")
	fs.String("name", "", "Program name shown on the brain; may span several words")
	fs.String("after", "", "Action after upload: run, screen or none")
	fs.Bool("serial", false, "Open a serial terminal after a successful upload")
	fs.Bool("verbose", false, "Log every step and tool invocation")
	fs.Bool("check-kernel", false, "Check whether a newer PROS kernel than "+model.KernelVersion+" exists")
	fs.Bool("version", false, "Print version information")
	fs.Bool("help", false, "Show this help message")

	// SetAnnotation only fails for undeclared names.
	_ = fs.SetAnnotation("name", annotationRest, []string{"true"})
	for name := range terminalActions {
		_ = fs.SetAnnotation(name, annotationTerminal, []string{"true"})
	}
	return fs
}

// Parse turns the arguments after the program name into an Invocation.
// It never touches the filesystem or starts a process. Every token is either
// consumed or reported in a *model.Failure.
func Parse(args []string) (Invocation, error) {
	var inv Invocation

	positional := 0
	for positional < len(args) && positional < 2 && !strings.HasPrefix(args[positional], "--") {
		positional++
	}
	if positional > 0 {
		inv.ExecutablePath = args[0]
	}
	if positional > 1 {
		inv.ProjectName = args[1]
	}
	rest := args[positional:]

	if positional == 2 && len(rest) == 0 {
		inv.Defaults = true
		return inv, nil
	}

	fs := NewFlagSet()
	action, err := scan(fs, rest)
	if err != nil {
		return Invocation{}, err
	}
	inv.Action = action
	if action != ActionUpload {
		return inv, nil
	}

	switch positional {
	case 0:
		return Invocation{}, &model.Failure{Kind: model.MissingArgument, Code: model.ExitFailure, Token: "<executable-path>"}
	case 1:
		return Invocation{}, &model.Failure{Kind: model.MissingArgument, Code: model.ExitFailure, Token: "<project-name>"}
	}

	inv.Request = request(fs)
	inv.Verbose, _ = fs.GetBool("verbose")
	return inv, nil
}

// scan walks tokens left to right, storing values in fs. It stops at the
// first terminal flag.
func scan(fs *pflag.FlagSet, tokens []string) (Action, error) {
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		name, ok := strings.CutPrefix(tok, "--")
		if !ok || name == "" {
			return 0, unrecognized(tok)
		}
		f := fs.Lookup(name)
		if f == nil {
			return 0, unrecognized(tok)
		}

		if hasAnnotation(f, annotationTerminal) {
			return terminalActions[name], nil
		}

		switch {
		case f.Value.Type() == "bool":
			if err := fs.Set(name, "true"); err != nil {
				return 0, invalid(tok, err)
			}
		case hasAnnotation(f, annotationRest):
			end := i + 1
			for end < len(tokens) && !isFlag(fs, tokens[end]) {
				end++
			}
			if end == i+1 {
				if action, ok := terminalAt(fs, tokens, end); ok {
					return action, nil
				}
				return 0, missing(tok)
			}
			if err := fs.Set(name, joinWords(tokens[i+1:end])); err != nil {
				return 0, invalid(tok, err)
			}
			i = end - 1
		default:
			if action, ok := terminalAt(fs, tokens, i+1); ok {
				return action, nil
			}
			if i+1 >= len(tokens) {
				return 0, missing(tok)
			}
			if err := fs.Set(name, tokens[i+1]); err != nil {
				return 0, invalid(tok+" "+tokens[i+1], err)
			}
			i++
		}
	}
	return ActionUpload, nil
}

// joinWords makes one shell-safe word of a multi-token value. Each token is
// quoted on its own and the separating spaces are escaped, so "My" "Program"
// becomes My\ Program.
func joinWords(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = shellescape.Quote(w)
	}
	return strings.Join(quoted, `\ `)
}

// terminalAt reports the action of tokens[i] when it is a terminal flag.
func terminalAt(fs *pflag.FlagSet, tokens []string, i int) (Action, bool) {
	if i >= len(tokens) {
		return 0, false
	}
	name, ok := strings.CutPrefix(tokens[i], "--")
	if !ok {
		return 0, false
	}
	f := fs.Lookup(name)
	if f == nil || !hasAnnotation(f, annotationTerminal) {
		return 0, false
	}
	return terminalActions[name], true
}

func request(fs *pflag.FlagSet) model.UploadRequest {
	var req model.UploadRequest
	if fs.Changed("slot") {
		slot, _ := fs.GetInt("slot")
		req.Slot = &slot
	}
	if fs.Changed("name") {
		name, _ := fs.GetString("name")
		req.Name = &name
	}
	if fs.Changed("after") {
		after, _ := fs.GetString("after")
		a := model.AfterAction(after)
		req.After = &a
	}
	req.OpenSerial, _ = fs.GetBool("serial")
	return req
}

// isFlag reports whether tok names a declared flag.
func isFlag(fs *pflag.FlagSet, tok string) bool {
	name, ok := strings.CutPrefix(tok, "--")
	return ok && name != "" && fs.Lookup(name) != nil
}

func hasAnnotation(f *pflag.Flag, key string) bool {
	_, ok := f.Annotations[key]
	return ok
}

func unrecognized(tok string) error {
	return &model.Failure{Kind: model.UnrecognizedFlag, Code: model.ExitFailure, Token: tok}
}

func missing(tok string) error {
	return &model.Failure{Kind: model.MissingArgument, Code: model.ExitFailure, Token: tok}
}

func invalid(tok string, err error) error {
	return &model.Failure{Kind: model.InvalidValue, Code: model.ExitFailure, Token: tok, Err: err}
}
