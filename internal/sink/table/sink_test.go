package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/tabula/internal/core"
)

func TestSinkWritesRows(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf, Options{})

	require.NoError(t, s.WriteRow(udpPacket(), udpSummary()))
	require.NoError(t, s.Close())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "1|"), "row should start with frame number")
}

func TestCreateRefusesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tbl")
	require.NoError(t, os.WriteFile(path, []byte("existing"), 0o644))

	_, err := Create(path, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrOutputExists)

	// The pre-existing file is untouched
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "existing", string(data))
}

func TestCreateWritesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tbl")

	s, err := Create(path, Options{})
	require.NoError(t, err)
	require.NoError(t, s.WriteRow(udpPacket(), udpSummary()))
	require.NoError(t, s.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "deadbeef")
}
