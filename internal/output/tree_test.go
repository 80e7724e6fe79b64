package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree(t *testing.T) {
	out := stripAnsi(RenderFileTree("myapp", map[string]string{
		"server/config/mappings.json":           "written",
		"server/localdev-config.json":           "written",
		"chart/myapp/templates/deployment.yaml": "patched",
		"service.yaml":                          "",
	}))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "myapp/", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "├── chart/"), lines[1])
	assert.Contains(t, out, "deployment.yaml")
	assert.Contains(t, out, "patched")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "└── service.yaml"))
}

func TestRenderFileTreeEmpty(t *testing.T) {
	assert.Empty(t, RenderFileTree("myapp", nil))
}
