// File: cmd/verify_test.go
package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/boxlayout/internal/snapshot"
)

func TestVerifyCmd(t *testing.T) {
	dir := t.TempDir()
	golden := filepath.Join(dir, "golden.jsonl")

	out, err := runCLI(t, "verify", "--update", "-s", golden, flexRowFixture, namedLinesFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "updated 2 fixtures in "+golden)

	out, err = runCLI(t, "verify", "-s", golden, flexRowFixture, namedLinesFixture)
	require.NoError(t, err)
	assert.Contains(t, out, "ok       flex-row\n")
	assert.Contains(t, out, "ok       named-lines\n")

	t.Run("changed layout", func(t *testing.T) {
		wider := filepath.Join(dir, "wider.yaml")
		require.NoError(t, os.WriteFile(wider, []byte(`
name: flex-row
root:
  style: {display: flex, width: 320px, height: 100px}
`), 0o644))

		out, err := runCLI(t, "verify", "-s", golden, wider, namedLinesFixture)
		require.ErrorIs(t, err, snapshot.ErrMismatch)
		assert.Contains(t, out, "changed  flex-row\n")
		assert.Contains(t, out, "Width")
	})

	t.Run("new and removed fixtures", func(t *testing.T) {
		out, err := runCLI(t, "verify", "-s", golden, namedLinesFixture)
		require.ErrorIs(t, err, snapshot.ErrMismatch)
		assert.Contains(t, out, "removed  flex-row\n")
	})

	t.Run("snapshot flag is required", func(t *testing.T) {
		_, err := runCLI(t, "verify", flexRowFixture)
		assert.ErrorContains(t, err, "snapshot")
	})

	t.Run("missing snapshot file", func(t *testing.T) {
		_, err := runCLI(t, "verify", "-s", filepath.Join(dir, "none.jsonl"), flexRowFixture)
		assert.ErrorContains(t, err, "failed to open snapshot")
	})
}
