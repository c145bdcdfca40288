package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromBuildInfo(t *testing.T) {
	saveVersion, saveCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = saveVersion, saveCommit })

	tests := []struct {
		name        string
		info        *debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "module version and dirty tree",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "v0.4.0"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "0123456789abcdef"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVersion: "v0.4.0",
			wantCommit:  "0123456-dirty",
		},
		{
			name: "devel build falls back to commit date",
			info: &debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "abc"},
					{Key: "vcs.time", Value: "2026-03-14T10:00:00Z"},
				},
			},
			wantVersion: "dev-20260314",
			wantCommit:  "abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit = "", ""
			fromBuildInfo(func() (*debug.BuildInfo, bool) { return tt.info, true })
			assert.Equal(t, tt.wantVersion, Version)
			assert.Equal(t, tt.wantCommit, Commit)
		})
	}

	t.Run("ldflags win", func(t *testing.T) {
		Version, Commit = "v1.0.0", "feed"
		fromBuildInfo(func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Main: debug.Module{Version: "v9"}}, true
		})
		assert.Equal(t, "v1.0.0 (commit: feed)", Full())
		assert.Equal(t, "artesanato/v1.0.0", UserAgent())
	})
}
