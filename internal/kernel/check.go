// Package kernel compares the kernel template version written to project.pros
// with the newest PROS kernel release.
package kernel

import (
	"fmt"
	"io"

	"github.com/tcnksm/go-latest"

	"prosupload/internal/model"
)

// Releases is where PROS kernel versions are published.
func Releases() latest.Source {
	return &latest.GithubTag{
		Owner:      "purduesigbots",
		Repository: "pros",
	}
}

// Check reports on w whether a kernel newer than model.KernelVersion exists.
func Check(w io.Writer, src latest.Source) error {
	res, err := latest.Check(src, model.KernelVersion)
	if err != nil {
		return fmt.Errorf("kernel: check latest release: %w", err)
	}
	Report(w, res)
	return nil
}

// Report prints the outcome of a release check.
func Report(w io.Writer, res *latest.CheckResponse) {
	if res.Outdated {
		fmt.Fprintf(w, "✨ A newer PROS kernel is available: %s (project.pros pins %s)\n", res.Current, model.KernelVersion)
		fmt.Fprintln(w, "👉 Release notes: https://github.com/purduesigbots/pros/releases")
		return
	}
	fmt.Fprintf(w, "✅ project.pros pins the latest PROS kernel: %s\n", model.KernelVersion)
}
