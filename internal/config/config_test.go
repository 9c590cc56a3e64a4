package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "|", cfg.Output.Separator)
	assert.Equal(t, 0, cfg.Output.MaxPayloadBytes)
	assert.Equal(t, EngineGoPacket, cfg.Summary.Engine)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabula.yml")
	content := `
output:
  separator: ";"
  max_payload_bytes: 64
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ";", cfg.Output.Separator)
	assert.Equal(t, 64, cfg.Output.MaxPayloadBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults
	assert.Equal(t, EngineGoPacket, cfg.Summary.Engine)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabula.yml")
	require.NoError(t, os.WriteFile(path, []byte("summary:\n  engine: tshark\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summary.engine")
}

func TestLoadRejectsNegativePayloadCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tabula.yml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  max_payload_bytes: -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
