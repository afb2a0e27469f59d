package utils

import "time"

// SegmentMarker is the literal substring a base URL must carry; the segment
// index is substituted in its place.
const SegmentMarker = "-000000.ts"

const SegmentExt = ".ts"
const ConcatListName = "file_list.txt"

const (
	DefaultRetries     = 3
	DefaultBackoffBase = 2 * time.Second
	DefaultHTTPTimeout = 10 * time.Second
	DefaultWorkDir     = "temp_files"
	DefaultOutputDir   = "output_video"
	DefaultOutputName  = "combined_video.mp4"
)

// MaxConsecutiveMisses ends the discovery loop: with no playlist to consult,
// this many whole-segment failures in a row is treated as end of stream.
const MaxConsecutiveMisses = 5

const CopyChunkSize = 8192

const LogFile = ".stitch.log"

// Local-only User-Agent list
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:135.0) Gecko/20100101 Firefox/135.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:135.0) Gecko/20100101 Firefox/135.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.3 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36 Edg/132.0.0.0",
	"curl/7.88.1",
	"Wget/1.21.4",
}
