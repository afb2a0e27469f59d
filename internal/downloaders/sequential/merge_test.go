package sequential

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/stitch/internal/utils"
)

func TestWriteConcatList(t *testing.T) {
	workDir := t.TempDir()
	segmentFiles := []string{
		filepath.Join(workDir, "000000.ts"),
		filepath.Join(workDir, "000001.ts"),
		filepath.Join(workDir, "000002.ts"),
	}

	listPath, err := writeConcatList(segmentFiles, workDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workDir, utils.ConcatListName), listPath)

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, "file '000000.ts'\nfile '000001.ts'\nfile '000002.ts'\n", string(data))
}

func TestWriteConcatListUsesBasenamesOnly(t *testing.T) {
	workDir := t.TempDir()
	listPath, err := writeConcatList([]string{filepath.Join(workDir, "nested", "000000.ts")}, workDir)
	require.NoError(t, err)

	data, err := os.ReadFile(listPath)
	require.NoError(t, err)
	assert.Equal(t, "file '000000.ts'\n", string(data))
}

func TestCleanupSegments(t *testing.T) {
	workDir := t.TempDir()
	for _, name := range []string{"000000.ts", "000001.ts", utils.ConcatListName, "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(workDir, name), []byte("x"), 0644))
	}
	nested := filepath.Join(workDir, "nested")
	require.NoError(t, os.Mkdir(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "000009.ts"), []byte("x"), 0644))

	require.NoError(t, cleanupSegments(workDir))

	assert.NoFileExists(t, filepath.Join(workDir, "000000.ts"))
	assert.NoFileExists(t, filepath.Join(workDir, "000001.ts"))
	// Non-segment entries and nested directories are untouched
	assert.FileExists(t, filepath.Join(workDir, utils.ConcatListName))
	assert.FileExists(t, filepath.Join(workDir, "notes.txt"))
	assert.FileExists(t, filepath.Join(nested, "000009.ts"))
}

func TestCleanupSegmentsMissingDir(t *testing.T) {
	err := cleanupSegments(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
