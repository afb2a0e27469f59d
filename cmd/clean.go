package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/stitch/internal/output"
	"github.com/tanq16/stitch/internal/utils"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [dir]",
		Short: "Remove leftover segment files and the concat list",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := utils.DefaultWorkDir
			if workDir != "" {
				dir = workDir
			}
			if len(args) == 1 {
				dir = args[0]
			}
			if err := utils.CleanWorkDir(dir); err != nil {
				output.PrintError("Error cleaning up temporary files")
				return
			}
			output.PrintSuccess("Temporary files cleaned up")
		},
	}
}
