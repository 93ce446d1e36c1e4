package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTree(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"values/strings.xml",
		"values-es/strings.xml",
		"drawable-hdpi/icon.png",
		"layout/main.xml",
	}
	for _, rel := range files {
		abs := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0755))
		require.NoError(t, os.WriteFile(abs, []byte("x"), 0644))
	}
	// Hidden files and directories are skipped.
	require.NoError(t, os.WriteFile(filepath.Join(root, ".DS_Store"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "config"), []byte("x"), 0644))

	pairs, err := NewResTreeAdapter().ScanTree(root)
	require.NoError(t, err)
	require.Len(t, pairs, len(files))
	for _, rel := range files {
		abs, ok := pairs[rel]
		require.True(t, ok, "missing %s", rel)
		assert.True(t, filepath.IsAbs(abs))
	}
}

func TestScanTreeEmptyRoot(t *testing.T) {
	_, err := NewResTreeAdapter().ScanTree("")
	require.Error(t, err)
}

func TestScanTreeMissingRoot(t *testing.T) {
	_, err := NewResTreeAdapter().ScanTree(filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
}
