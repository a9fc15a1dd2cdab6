package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pluqqy/taxo-terminal/pkg/models"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" warn "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("loud"))
}

func TestNew_WritesSessionTaggedJSON(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(models.LoggingSettings{Level: "info", File: "logs/taxo.log"}, dir, false)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("visible")
	_ = logger.Sync()

	f, err := os.Open(filepath.Join(dir, "logs", "taxo.log"))
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		lines = append(lines, entry)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "visible", lines[0]["msg"])
	assert.NotEmpty(t, lines[0]["session"])
}

func TestNew_VerboseEnablesDebug(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(models.LoggingSettings{Level: "error"}, dir, true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	_ = logger.Sync()
}
