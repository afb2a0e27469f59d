package sequential

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tanq16/stitch/internal/utils"
)

// Downloader reconstructs a video from sequentially numbered segment URLs.
// There is no playlist to consult; segment URLs are guessed by substituting
// an incrementing zero-padded index for the marker in the base URL.
type Downloader struct{}

func (d *Downloader) ValidateJob(job *utils.StitchJob) error {
	parsedURL, err := url.Parse(job.URL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported scheme: %s", parsedURL.Scheme)
	}
	if !strings.Contains(job.URL, utils.SegmentMarker) {
		return fmt.Errorf("URL must contain the %q segment marker", utils.SegmentMarker)
	}
	return nil
}

func (d *Downloader) BuildJob(job *utils.StitchJob) error {
	if job.Metadata == nil {
		job.Metadata = make(map[string]any)
	}
	if job.OutputPath == "" {
		job.OutputPath = filepath.Join(utils.DefaultOutputDir, utils.DefaultOutputName)
	}
	if existingFile, err := os.Stat(job.OutputPath); err == nil && existingFile != nil {
		job.OutputPath = utils.RenewOutputPath(job.OutputPath)
	}
	if job.WorkDir == "" {
		job.WorkDir = utils.DefaultWorkDir
	}
	if job.Retries <= 0 {
		job.Retries = utils.DefaultRetries
	}
	if job.BackoffBase <= 0 {
		job.BackoffBase = utils.DefaultBackoffBase
	}
	return nil
}
