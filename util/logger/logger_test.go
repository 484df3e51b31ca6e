package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSetupWritesFile(t *testing.T) {
	t.Cleanup(func() { Set(zap.NewNop()) })
	file := filepath.Join(t.TempDir(), "logs", "provenance.log")

	l, err := Setup(Options{Level: "debug", File: file})
	require.NoError(t, err)
	assert.Same(t, l, L())

	L().Debug("role lookup failed", zap.String("role", "ADMIN"))
	require.NoError(t, l.Sync())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "role lookup failed")
	assert.Contains(t, string(content), `"role":"ADMIN"`)
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)
}

func TestSetupWithoutSinksIsNop(t *testing.T) {
	t.Cleanup(func() { Set(zap.NewNop()) })
	l, err := Setup(Options{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.ErrorLevel))
}
