package scheduler

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/stitch/internal/downloaders/sequential"
	"github.com/tanq16/stitch/internal/output"
	"github.com/tanq16/stitch/internal/utils"
)

// downloaderRegistry maps job types to their downloader implementations
var downloaderRegistry = map[string]utils.Downloader{
	"sequential": &sequential.Downloader{},
}

// Run executes the given jobs with a bounded worker pool. Each job itself is
// strictly sequential; workers only parallelize across jobs.
func Run(jobs []utils.StitchJob, numWorkers int, fileLog bool) error {
	if fileLog {
		f, err := os.OpenFile(utils.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			defer f.Close()
			utils.SetLogOutput(f)
		}
	} else {
		// The live display repaints in place; console logs would tear it.
		utils.DisableLogging()
	}
	outputMgr := output.NewManager()
	outputMgr.StartDisplay()

	jobCh := make(chan utils.StitchJob, len(jobs))
	for _, job := range jobs {
		if job.ID == "" {
			job.ID = uuid.New().String()
		}
		jobCh <- job
	}
	close(jobCh)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processJobs(jobCh, outputMgr)
		}()
	}
	wg.Wait()
	outputMgr.StopDisplay()

	if failed := outputMgr.ErrorCount(); failed > 0 {
		return fmt.Errorf("%d job(s) failed", failed)
	}
	return nil
}

func processJobs(jobCh <-chan utils.StitchJob, outputMgr *output.Manager) {
	for job := range jobCh {
		funcID := outputMgr.Register(job.URL)
		downloader, exists := downloaderRegistry[job.JobType]
		if !exists {
			outputMgr.ReportError(funcID, fmt.Errorf("unknown job type: %s", job.JobType))
			continue
		}
		log.Debug().Str("op", "scheduler").Str("job", job.ID).Msgf("Starting %s job for %s", job.JobType, job.URL)

		outputMgr.SetMessage(funcID, fmt.Sprintf("Validating %s job", job.JobType))
		if err := downloader.ValidateJob(&job); err != nil {
			outputMgr.ReportError(funcID, fmt.Errorf("validation failed: %v", err))
			continue
		}

		outputMgr.SetMessage(funcID, fmt.Sprintf("Building %s job", job.JobType))
		if err := downloader.BuildJob(&job); err != nil {
			outputMgr.ReportError(funcID, fmt.Errorf("build failed: %v", err))
			continue
		}

		job.StreamFunc = func(line string) {
			outputMgr.AddStreamLine(funcID, line)
		}
		startTime := time.Now()
		job.ProgressFunc = func(segments int, bytes int64) {
			elapsed := time.Since(startTime).Seconds()
			outputMgr.SetProgressLine(funcID, fmt.Sprintf("%d segments %s %s %s %s",
				segments, output.StyleSymbols["bullet"], utils.FormatBytes(uint64(bytes)),
				output.StyleSymbols["bullet"], utils.FormatSpeed(bytes, elapsed)))
		}

		outputMgr.SetStatus(funcID, "active")
		outputMgr.SetMessage(funcID, fmt.Sprintf("Downloading %s", job.URL))
		if err := downloader.Download(&job); err != nil {
			outputMgr.ReportError(funcID, err)
			continue
		}

		if segments, ok := job.Metadata["segments"].(int); ok && segments == 0 {
			outputMgr.Warn(funcID, fmt.Sprintf("No segments downloaded for %s", job.URL))
			continue
		}
		outputMgr.Complete(funcID, fmt.Sprintf("Saved %s", job.OutputPath))
	}
}
