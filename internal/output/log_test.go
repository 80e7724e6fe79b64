package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

// captureLog sets up the logger to write to a buffer and returns the buffer.
func captureLog(cfg LogConfig) *bytes.Buffer {
	var buf bytes.Buffer
	SetupLogging(cfg)
	Logger = log.NewWithOptions(&buf, log.Options{
		Level:           Logger.GetLevel(),
		ReportTimestamp: cfg.timestamps(),
		ReportCaller:    cfg.Verbose,
		TimeFormat:      "15:04:05",
	})
	return &buf
}

func TestSetupLogging_TimestampDefaultOn(t *testing.T) {
	buf := captureLog(LogConfig{})
	Info("test")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, strings.TrimSpace(buf.String()))
}

func TestSetupLogging_TimestampExplicitlyDisabled(t *testing.T) {
	buf := captureLog(LogConfig{Timestamps: BoolPtr(false)})
	Info("hello")
	assert.NotRegexp(t, `^\d{1,2}:\d{2}:\d{2}`, strings.TrimSpace(buf.String()),
		"output should not start with a timestamp")
}

func TestSetupLogging_VerboseForcesTimestamps(t *testing.T) {
	cfg := LogConfig{Verbose: true, Timestamps: BoolPtr(false)}
	assert.True(t, cfg.timestamps())

	buf := captureLog(cfg)
	Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")
}

func TestSetupLogging_InfoHidesDebug(t *testing.T) {
	buf := captureLog(LogConfig{})
	Debug("hidden")
	Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestServiceLogger(t *testing.T) {
	var buf bytes.Buffer
	base := log.NewWithOptions(&buf, log.Options{})
	ServiceLogger(base, "cloudant").Info("flattened", "keys", 2)
	assert.Contains(t, buf.String(), "cloudant")
	assert.Contains(t, buf.String(), "keys=2")
}
