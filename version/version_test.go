package version

import (
	"runtime"
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo_String(t *testing.T) {
	i := Info{Version: "v0.3.1", CommitHash: "0123456789abcdef", BuildTime: "2026-01-02"}
	assert.Equal(t, "alman v0.3.1 (commit 0123456, built 2026-01-02)", i.String())
	assert.Equal(t, "dev", Info{CommitHash: "dev"}.Short())
}

func TestGet_Platform(t *testing.T) {
	i := Get()
	assert.Equal(t, runtime.Version(), i.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, i.Platform)
}

func TestFillFromBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abcdef123456"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		},
	}

	i := Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"}
	fillFromBuildInfo(&i, bi)
	assert.Equal(t, Info{Version: "v1.2.0", CommitHash: "abcdef123456", BuildTime: "2026-03-04T05:06:07Z"}, i)

	stamped := Info{Version: "v9", CommitHash: "fff", BuildTime: "now"}
	fillFromBuildInfo(&stamped, bi)
	assert.Equal(t, Info{Version: "v9", CommitHash: "fff", BuildTime: "now"}, stamped, "ldflags win")

	devel := Info{Version: "dev"}
	fillFromBuildInfo(&devel, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
	assert.Equal(t, "dev", devel.Version)
}
