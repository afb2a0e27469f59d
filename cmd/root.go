package cmd

import (
	"fmt"
	u "net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/stitch/internal/output"
	"github.com/tanq16/stitch/internal/scheduler"
	"github.com/tanq16/stitch/internal/utils"
)

var (
	outputPath    string
	workDir       string
	retries       int
	backoff       time.Duration
	timeout       time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	headers       []string
	workers       int
	fileLog       bool
	debug         bool
)

var globalHTTPConfig utils.HTTPClientConfig

var StitchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "stitch [URL]",
	Short:   "Stitch rebuilds a full video from sequentially numbered .ts segment URLs",
	Long:    fmt.Sprintf("Stitch takes a single segment URL containing the %q marker, downloads every numbered segment it can find, and remuxes them into one video with ffmpeg.", utils.SegmentMarker),
	Version: StitchVersion,
	Args:    cobra.MaximumNArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
		if userAgent == "randomize" {
			userAgent = utils.GetRandomUserAgent()
		}
		// Lift auth out of the proxy URL if it carries any
		parsedProxy, err := u.Parse(proxyURL)
		if err == nil && parsedProxy.User != nil && proxyUsername == "" {
			proxyUsername = parsedProxy.User.Username()
			if password, set := parsedProxy.User.Password(); set {
				proxyPassword = password
			}
			parsedProxy.User = nil
			proxyURL = parsedProxy.String()
		}
		globalHTTPConfig = utils.HTTPClientConfig{
			Timeout:       timeout,
			ProxyURL:      proxyURL,
			ProxyUsername: proxyUsername,
			ProxyPassword: proxyPassword,
			UserAgent:     userAgent,
			Headers:       utils.ParseHeaderArgs(headers),
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			output.PrintError("No segment URL provided")
			cmd.Usage()
			os.Exit(1)
		}
		job := utils.StitchJob{
			JobType:          "sequential",
			URL:              args[0],
			OutputPath:       outputPath,
			WorkDir:          workDir,
			Retries:          retries,
			BackoffBase:      backoff,
			HTTPClientConfig: globalHTTPConfig,
			Metadata:         make(map[string]any),
		}
		if err := scheduler.Run([]utils.StitchJob{job}, 1, fileLog); err != nil {
			output.PrintError("Encountered failed operation(s)")
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", fmt.Sprintf("Output file path (default: %s)", utils.DefaultOutputName))
	rootCmd.PersistentFlags().StringVar(&workDir, "workdir", "", fmt.Sprintf("Working directory for segments (default: %s)", utils.DefaultWorkDir))
	rootCmd.PersistentFlags().IntVarP(&retries, "retries", "r", utils.DefaultRetries, "Attempts per segment")
	rootCmd.PersistentFlags().DurationVarP(&backoff, "backoff", "b", utils.DefaultBackoffBase, "Linear backoff base between failed attempts (eg. 500ms, 2s)")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", utils.DefaultHTTPTimeout, "Per-attempt connection timeout (eg. 5s, 1m)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", "", "User agent ('randomize' picks a browser agent)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers (like 'Authorization: Basic dXNlcjpwYXNz'); can be specified multiple times")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 1, "Number of jobs to run in parallel (batch)")
	rootCmd.PersistentFlags().BoolVar(&fileLog, "file-log", false, fmt.Sprintf("Write logs to %s instead of discarding them", utils.LogFile))
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
}
