package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"prosupload/internal/model"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	exampleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // Grey
)

// Usage writes the help block.
func Usage(w io.Writer) {
	fmt.Fprintln(w, headingStyle.Render("pros-upload "+model.Version))
	fmt.Fprintf(w, "\nUsage: pros-upload <executable-path> <project-name> [options]\n\n")
	fmt.Fprintf(w, "Converts a built V5 executable to a binary, writes project.pros to the\n")
	fmt.Fprintf(w, "current directory and uploads it with the pros uploader.\n")
	fmt.Fprintf(w, "Options that are not given are left to the uploader's defaults.\n\n")
	fmt.Fprintf(w, "Options:\n")
	fmt.Fprint(w, NewFlagSet().FlagUsages())
	fmt.Fprintf(w, "\nExamples:\n")
	fmt.Fprintln(w, exampleStyle.Render("  pros-upload build/robot.elf myproj                      # upload with uploader defaults"))
	fmt.Fprintln(w, exampleStyle.Render("  pros-upload build/robot.elf myproj --slot 3 --after run"))
	fmt.Fprintln(w, exampleStyle.Render("  pros-upload build/robot.elf myproj --serial --name My Program"))
}

// ReportError writes err as a single highlighted line.
func ReportError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

// ReportUsageError writes a usage failure followed by the help block.
func ReportUsageError(w io.Writer, err error) {
	ReportError(w, err)
	fmt.Fprintln(w)
	Usage(w)
}
