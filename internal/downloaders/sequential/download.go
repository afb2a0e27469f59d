package sequential

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/stitch/internal/utils"
)

func (d *Downloader) Download(job *utils.StitchJob) error {
	if err := os.MkdirAll(job.WorkDir, 0755); err != nil {
		return fmt.Errorf("error creating work directory: %v", err)
	}
	client := utils.NewStitchHTTPClient(job.HTTPClientConfig)

	if job.StreamFunc != nil {
		job.StreamFunc("Discovering segments...")
	}
	segmentFiles, totalBytes := fetchSegments(job, client)
	job.Metadata["segments"] = len(segmentFiles)
	if len(segmentFiles) == 0 {
		log.Warn().Str("op", "sequential/download").Msgf("No segments downloaded for %s", job.URL)
		return nil
	}
	log.Info().Str("op", "sequential/download").Msgf("Downloaded %d segments (%s)", len(segmentFiles), utils.FormatBytes(uint64(totalBytes)))

	if job.StreamFunc != nil {
		job.StreamFunc(fmt.Sprintf("Combining %d segments with ffmpeg", len(segmentFiles)))
	}
	listPath, err := writeConcatList(segmentFiles, job.WorkDir)
	if err != nil {
		return err
	}
	result, err := combineSegments(listPath, job.OutputPath)
	if err != nil {
		// Keep the segments around so a rerun of ffmpeg is possible.
		log.Warn().Str("op", "sequential/download").Msgf("Preserving segments in %s after mux failure", job.WorkDir)
		if result != nil {
			return fmt.Errorf("error combining segments (ffmpeg exit %d): %v", result.ExitCode, err)
		}
		return fmt.Errorf("error combining segments: %v", err)
	}

	if err := cleanupSegments(job.WorkDir); err != nil {
		return fmt.Errorf("error cleaning up segments: %v", err)
	}
	log.Info().Str("op", "sequential/download").Msgf("Combined video saved to %s", job.OutputPath)
	return nil
}
