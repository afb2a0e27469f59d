package sequential

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/stitch/internal/utils"
)

// MuxResult captures the outcome of the ffmpeg invocation so callers can
// decide whether to clean up instead of assuming success.
type MuxResult struct {
	ExitCode int
	Output   string
}

// writeConcatList writes the ffmpeg concat directive file into the working
// directory, one basename per segment in download order.
func writeConcatList(segmentFiles []string, workDir string) (string, error) {
	listPath := filepath.Join(workDir, utils.ConcatListName)
	f, err := os.Create(listPath)
	if err != nil {
		return "", fmt.Errorf("error creating concat list: %v", err)
	}
	defer f.Close()
	for _, file := range segmentFiles {
		fmt.Fprintf(f, "file '%s'\n", filepath.Base(file))
	}
	return listPath, nil
}

// combineSegments remuxes the listed segments into outputPath with a stream
// copy. ffmpeg resolves the basenames in the list relative to its location.
func combineSegments(listPath, outputPath string) (*MuxResult, error) {
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("error creating output directory: %v", err)
		}
	}
	cmd := exec.Command(
		"ffmpeg",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		"-y",
		outputPath,
	)
	log.Debug().Str("op", "sequential/merge").Msgf("Executing ffmpeg command: %s", cmd.String())
	output, err := cmd.CombinedOutput()
	result := &MuxResult{ExitCode: -1, Output: string(output)}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err != nil {
		log.Error().Str("op", "sequential/merge").Msgf("FFmpeg output:\n%s", result.Output)
		return result, fmt.Errorf("ffmpeg error: %v", err)
	}
	return result, nil
}

// cleanupSegments removes segment files from the working directory. Only
// flat entries ending in the segment extension are touched.
func cleanupSegments(workDir string) error {
	entries, err := os.ReadDir(workDir)
	if err != nil {
		return fmt.Errorf("error reading work directory: %v", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), utils.SegmentExt) {
			continue
		}
		if err := os.Remove(filepath.Join(workDir, entry.Name())); err != nil {
			return fmt.Errorf("error removing %s: %v", entry.Name(), err)
		}
	}
	return nil
}
