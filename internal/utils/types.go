package utils

import "time"

type Downloader interface {
	Download(job *StitchJob) error
	BuildJob(job *StitchJob) error
	ValidateJob(job *StitchJob) error
}

type StitchJob struct {
	ID               string
	JobType          string
	URL              string
	OutputPath       string
	WorkDir          string
	Retries          int
	BackoffBase      time.Duration
	ProgressFunc     func(segments int, bytes int64)
	StreamFunc       func(line string)
	Metadata         map[string]any
	HTTPClientConfig HTTPClientConfig
}

type BatchEntry struct {
	OutputPath string `yaml:"op,omitempty"`
	Link       string `yaml:"link"`
	WorkDir    string `yaml:"workdir,omitempty"`
}
