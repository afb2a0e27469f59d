package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tanq16/stitch/internal/output"
	"github.com/tanq16/stitch/internal/scheduler"
	"github.com/tanq16/stitch/internal/utils"
	"gopkg.in/yaml.v3"
)

func newBatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process multiple segment URLs from a YAML file",
		Long:  "The YAML file is a list of entries with 'link' (required), 'op' (output path) and 'workdir' keys.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading YAML file: %v\n", err)
				os.Exit(1)
			}
			var entries []utils.BatchEntry
			if err := yaml.Unmarshal(data, &entries); err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing YAML file: %v\n", err)
				os.Exit(1)
			}
			jobs := buildJobsFromBatch(entries)
			if len(jobs) == 0 {
				fmt.Fprintf(os.Stderr, "No valid jobs found in the batch file\n")
				os.Exit(1)
			}
			if err := scheduler.Run(jobs, workers, fileLog); err != nil {
				output.PrintError("Encountered failed operation(s)")
				os.Exit(1)
			}
		},
	}
}

func buildJobsFromBatch(entries []utils.BatchEntry) []utils.StitchJob {
	var jobs []utils.StitchJob
	for i, entry := range entries {
		if entry.Link == "" {
			fmt.Fprintf(os.Stderr, "Warning: Empty link in batch entry, skipping...\n")
			continue
		}
		jobWorkDir := entry.WorkDir
		if jobWorkDir == "" {
			jobWorkDir = workDir
		}
		if jobWorkDir == "" {
			// Parallel jobs cannot share a segment directory
			jobWorkDir = filepath.Join(utils.DefaultWorkDir, fmt.Sprintf("job_%03d", i+1))
		}
		jobs = append(jobs, utils.StitchJob{
			JobType:          "sequential",
			URL:              entry.Link,
			OutputPath:       entry.OutputPath,
			WorkDir:          jobWorkDir,
			Retries:          retries,
			BackoffBase:      backoff,
			HTTPClientConfig: globalHTTPConfig,
			Metadata:         make(map[string]any),
		})
	}
	return jobs
}
