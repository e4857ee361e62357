package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	dev := Info{Version: "dev", CommitHash: "0123456789abcdef", BuildTime: "2026-10-01"}
	assert.False(t, dev.Released())
	assert.Equal(t, "cgkit dev (commit 0123456, built 2026-10-01)", dev.String())

	tagged := Info{Version: "v1.2.0", CommitHash: "abc", BuildTime: "unknown"}
	assert.True(t, tagged.Released())
	assert.Equal(t, "cgkit v1.2.0 (commit abc, built unknown)", tagged.String())
}

func TestGet(t *testing.T) {
	info := Get()
	assert.Equal(t, Version, info.Version)
	assert.Contains(t, info.Platform, "/")
	assert.NotEmpty(t, info.GoVersion)
}
