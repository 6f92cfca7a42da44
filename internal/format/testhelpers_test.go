package format

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeSource writes content under dir/run1/name and returns its Source.
func writeSource(t *testing.T, name, content string) Source {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "run1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return NewSource(path)
}

func mkdir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
