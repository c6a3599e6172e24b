package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := New(dir, true)
	require.NoError(t, err)
	logger.Debug("stream opened", zap.String("thread_id", "t-1"))
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"stream opened"`)
	assert.Contains(t, string(data), `"thread_id":"t-1"`)
}

func TestNewInfoLevelDropsDebug(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(dir, false)
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}
