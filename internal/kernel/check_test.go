package kernel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tcnksm/go-latest"
)

func TestReport_Outdated(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, &latest.CheckResponse{Current: "4.1.0", Outdated: true})

	assert.Contains(t, buf.String(), "4.1.0")
	assert.Contains(t, buf.String(), "pins 3.8.0")
}

func TestReport_UpToDate(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, &latest.CheckResponse{Current: "3.8.0"})

	assert.Contains(t, buf.String(), "latest PROS kernel: 3.8.0")
}

func TestReleases_PointsAtKernelRepo(t *testing.T) {
	src, ok := Releases().(*latest.GithubTag)
	if assert.True(t, ok) {
		assert.Equal(t, "purduesigbots", src.Owner)
		assert.Equal(t, "pros", src.Repository)
		assert.NoError(t, src.Validate())
	}
}
