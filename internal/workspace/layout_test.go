package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutPaths(t *testing.T) {
	l := NewLayout("/data")

	assert.Equal(t, "/data/workspace/ws-1/spec/current.json", l.CurrentSpecFile("ws-1"))
	assert.Equal(t, "/data/workspace/ws-1/spec/history/3.json", l.SpecHistoryFile("ws-1", 3))
	assert.Equal(t, "/data/runs/run-1/src", l.RunSourceDir("run-1"))
	assert.Equal(t, "/data/runs/run-1/assets", l.RunAssetsDir("run-1"))
	assert.Equal(t, "/data/runs/run-1/build/libs/ruby_mod-1.0.0.jar", l.RunJarFile("run-1", "ruby_mod", "1.0.0"))
}
