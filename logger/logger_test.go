package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggingBeforeInitIsNoop(t *testing.T) {
	logger = nil
	assert.NotPanics(t, func() {
		Debug("debug", "k", 1)
		Info("info")
		Warn("warn")
		Error("error")
	})
}

func TestInitWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chordgen.log")
	Init(false, "warn", path)
	defer func() { logger = nil }()

	assert.Equal(t, log.WarnLevel, GetLogger().GetLevel())
	Info("dropped")
	Warn("kept", "mood", "sad")

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "kept")
	assert.Contains(t, string(data), "mood=sad")
	assert.NotContains(t, string(data), "dropped")
}

func TestVerboseOverridesLevel(t *testing.T) {
	Init(true, "error", filepath.Join(t.TempDir(), "x.log"))
	defer func() { logger = nil }()
	assert.Equal(t, log.DebugLevel, GetLogger().GetLevel())
}
