package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain segment name", "000001.ts", "000001.ts"},
		{"invalid characters dropped", `a<b>:"c|d?.ts`, "abcd.ts"},
		{"allowed punctuation kept", "my clip_v2-final.ts", "my clip_v2-final.ts"},
		{"surrounding whitespace trimmed", "  000001.ts  ", "000001.ts"},
		{"non-ascii dropped", "vidéo™000001.ts", "vido000001.ts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestParseHeaderArgs(t *testing.T) {
	headers := ParseHeaderArgs([]string{
		"Authorization: Bearer abc",
		"Referer:https://example.com/watch?v=1",
		"malformed-header",
	})
	assert.Equal(t, map[string]string{
		"Authorization": "Bearer abc",
		"Referer":       "https://example.com/watch?v=1",
	}, headers)
}

func TestRenewOutputPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "video.mp4")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, "video-(1).mp4"), RenewOutputPath(path))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "video-(1).mp4"), []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, "video-(2).mp4"), RenewOutputPath(path))
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", FormatBytes(512))
	assert.Equal(t, "8.00 KB", FormatBytes(8192))
	assert.Equal(t, "1.50 MB", FormatBytes(1572864))
}

func TestCleanWorkDir(t *testing.T) {
	dir := t.TempDir()
	workDir := filepath.Join(dir, "temp_files")
	require.NoError(t, os.Mkdir(workDir, 0755))
	for _, name := range []string{"000000.ts", "000001.ts", ConcatListName} {
		require.NoError(t, os.WriteFile(filepath.Join(workDir, name), []byte("x"), 0644))
	}

	require.NoError(t, CleanWorkDir(workDir))
	assert.NoDirExists(t, workDir)
}

func TestCleanWorkDirLeavesOtherFiles(t *testing.T) {
	workDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "000000.ts"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(workDir, "keep.txt"), []byte("x"), 0644))

	require.NoError(t, CleanWorkDir(workDir))
	assert.NoFileExists(t, filepath.Join(workDir, "000000.ts"))
	assert.FileExists(t, filepath.Join(workDir, "keep.txt"))
	assert.DirExists(t, workDir)
}

func TestCleanWorkDirMissing(t *testing.T) {
	assert.NoError(t, CleanWorkDir(filepath.Join(t.TempDir(), "absent")))
}
