package output

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestStatusStyle(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		wantBold bool
		wantFG   lipgloss.Color
		wantDim  bool
	}{
		{name: "written returns green", status: StatusWritten, wantFG: ColorGreen},
		{name: "patched returns green", status: StatusPatched, wantFG: ColorGreen},
		{name: "skipped returns yellow", status: StatusSkipped, wantFG: ColorYellow},
		{name: "unchanged returns faint", status: StatusUnchanged, wantDim: true},
		{name: "failed returns bold red", status: StatusFailed, wantBold: true, wantFG: ColorBoldRed},
		{name: "unknown returns default unstyled", status: "unknown-value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := StatusStyle(tt.status)
			if tt.wantBold {
				assert.True(t, style.GetBold(), "expected bold")
			}
			if tt.wantFG != "" {
				assert.Equal(t, tt.wantFG, style.GetForeground(), "foreground color mismatch")
			}
			if tt.wantDim {
				assert.True(t, style.GetFaint(), "expected faint")
			}
		})
	}
}

func TestFormatFileLine(t *testing.T) {
	result := FormatFileLine("server/config/mappings.json", StatusWritten)
	assert.Contains(t, result, "server/config/mappings.json")
	assert.Contains(t, result, StatusWritten)
	assert.True(t, strings.HasPrefix(stripAnsi(result), "f:"))

	t.Run("alignment consistency", func(t *testing.T) {
		line1 := stripAnsi(FormatFileLine("service.yaml", StatusPatched))
		line2 := stripAnsi(FormatFileLine("chart/myapp/values.yaml", StatusPatched))
		assert.Equal(t, strings.Index(line1, StatusPatched), strings.Index(line2, StatusPatched))
	})
}

func TestFormatCheckmark(t *testing.T) {
	result := FormatCheckmark("Bound 2 services")
	assert.Contains(t, result, "✔")
	assert.Contains(t, result, "Bound 2 services")
}

// stripAnsi removes ANSI escape sequences from a string.
func stripAnsi(s string) string {
	var result strings.Builder
	inEscape := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			inEscape = true
			continue
		}
		if inEscape {
			if s[i] == 'm' {
				inEscape = false
			}
			continue
		}
		result.WriteByte(s[i])
	}
	return result.String()
}
