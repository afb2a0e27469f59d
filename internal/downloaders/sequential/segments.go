package sequential

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/stitch/internal/utils"
)

// segmentURL substitutes the zero-padded index for the marker in the base
// URL. Everything else (host, path, query) stays verbatim.
func segmentURL(baseURL string, index int) string {
	return strings.ReplaceAll(baseURL, utils.SegmentMarker, fmt.Sprintf("-%06d.ts", index))
}

func segmentFilename(index int) string {
	return utils.SanitizeFilename(fmt.Sprintf("%06d%s", index, utils.SegmentExt))
}

// fetchSegments walks segment indices from 0 until MaxConsecutiveMisses
// whole-segment failures occur in a row. A success anywhere resets the miss
// counter, so isolated gaps do not end the run. Returns saved paths in index
// order and the total bytes written.
func fetchSegments(job *utils.StitchJob, client utils.HTTPDoer) ([]string, int64) {
	var segmentFiles []string
	var totalBytes int64
	misses := 0
	for index := 0; ; index++ {
		segURL := segmentURL(job.URL, index)
		outputPath := filepath.Join(job.WorkDir, segmentFilename(index))
		written, err := downloadSegment(segURL, outputPath, job.Retries, job.BackoffBase, client)
		if err != nil {
			misses++
			log.Warn().Str("op", "sequential/segments").Msgf("Segment %d failed after %d retries: %v", index, job.Retries, err)
			if misses >= utils.MaxConsecutiveMisses {
				log.Info().Str("op", "sequential/segments").Msgf("Reached %d consecutive failures, assuming end of stream", utils.MaxConsecutiveMisses)
				break
			}
			continue
		}
		misses = 0
		segmentFiles = append(segmentFiles, outputPath)
		totalBytes += written
		if job.ProgressFunc != nil {
			job.ProgressFunc(len(segmentFiles), totalBytes)
		}
	}
	return segmentFiles, totalBytes
}

// downloadSegment attempts a single segment up to retries times with linear
// backoff between failed attempts (none after the last).
func downloadSegment(segURL, outputPath string, retries int, backoff time.Duration, client utils.HTTPDoer) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		written, err := downloadAttempt(segURL, outputPath, client)
		if err == nil {
			return written, nil
		}
		lastErr = err
		log.Debug().Str("op", "sequential/segments").Msgf("Attempt %d/%d failed for %s: %v", attempt, retries, segURL, err)
		if attempt < retries {
			time.Sleep(time.Duration(attempt) * backoff)
		}
	}
	return 0, lastErr
}

func downloadAttempt(segURL, outputPath string, client utils.HTTPDoer) (int64, error) {
	req, err := http.NewRequest("GET", segURL, nil)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error fetching segment: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("server returned status code %d", resp.StatusCode)
	}
	outFile, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("error creating output file: %v", err)
	}
	defer outFile.Close()
	written, err := io.CopyBuffer(outFile, resp.Body, make([]byte, utils.CopyChunkSize))
	if err != nil {
		return 0, fmt.Errorf("error writing segment: %v", err)
	}
	return written, nil
}
