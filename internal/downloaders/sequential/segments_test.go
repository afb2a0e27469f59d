package sequential

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/stitch/internal/utils"
)

var segmentPathRegex = regexp.MustCompile(`-(\d{6,})\.ts$`)

// segmentServer answers GET requests for numbered segments, succeeding only
// for the given indices. It records every index requested.
type segmentServer struct {
	mu       sync.Mutex
	succeed  map[int]bool
	requests map[int]int
	maxIndex int
}

func newSegmentServer(succeed ...int) *segmentServer {
	s := &segmentServer{
		succeed:  make(map[int]bool),
		requests: make(map[int]int),
		maxIndex: -1,
	}
	for _, idx := range succeed {
		s.succeed[idx] = true
	}
	return s
}

func (s *segmentServer) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("auth") != "tok" {
			t.Errorf("query parameters not preserved: %s", r.URL.String())
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		match := segmentPathRegex.FindStringSubmatch(r.URL.Path)
		if match == nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		index, _ := strconv.Atoi(match[1])
		s.mu.Lock()
		s.requests[index]++
		if index > s.maxIndex {
			s.maxIndex = index
		}
		ok := s.succeed[index]
		s.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "segment %d data", index)
	}
}

func testJob(baseURL, workDir string) *utils.StitchJob {
	return &utils.StitchJob{
		JobType:     "sequential",
		URL:         baseURL,
		WorkDir:     workDir,
		Retries:     2,
		BackoffBase: time.Millisecond,
		Metadata:    make(map[string]any),
	}
}

func TestSegmentURLRendering(t *testing.T) {
	base := "https://cdn.example.com/vid/seg-000000.ts?token=abc&e=5"
	assert.Equal(t, "https://cdn.example.com/vid/seg-000000.ts?token=abc&e=5", segmentURL(base, 0))
	assert.Equal(t, "https://cdn.example.com/vid/seg-000007.ts?token=abc&e=5", segmentURL(base, 7))
	assert.Equal(t, "https://cdn.example.com/vid/seg-123456.ts?token=abc&e=5", segmentURL(base, 123456))
	// Indices wider than the padding keep all their digits
	assert.Equal(t, "https://cdn.example.com/vid/seg-1234567.ts?token=abc&e=5", segmentURL(base, 1234567))
}

func TestSegmentFilename(t *testing.T) {
	assert.Equal(t, "000003.ts", segmentFilename(3))
	assert.Equal(t, "001234.ts", segmentFilename(1234))
}

func TestFetchStopsAfterConsecutiveMisses(t *testing.T) {
	srv := newSegmentServer(0, 1, 2)
	server := httptest.NewServer(srv.handler(t))
	defer server.Close()

	workDir := t.TempDir()
	job := testJob(server.URL+"/vid-000000.ts?auth=tok", workDir)
	client := utils.NewStitchHTTPClient(utils.HTTPClientConfig{})

	files, _ := fetchSegments(job, client)

	require.Len(t, files, 3)
	for i, file := range files {
		assert.Equal(t, fmt.Sprintf("%06d.ts", i), filepath.Base(file))
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("segment %d data", i), string(data))
	}
	// Indices 3-7 are five consecutive whole-segment failures; the loop must
	// not probe index 8.
	assert.Equal(t, 7, srv.maxIndex)
	for idx := 3; idx <= 7; idx++ {
		assert.Equal(t, job.Retries, srv.requests[idx], "index %d", idx)
	}
}

func TestFetchResetsMissCounterOnSuccess(t *testing.T) {
	srv := newSegmentServer(0, 1, 2, 4, 6)
	server := httptest.NewServer(srv.handler(t))
	defer server.Close()

	workDir := t.TempDir()
	job := testJob(server.URL+"/vid-000000.ts?auth=tok", workDir)
	client := utils.NewStitchHTTPClient(utils.HTTPClientConfig{})

	files, _ := fetchSegments(job, client)

	// Isolated failures at 3 and 5 do not end the run; only the streak at
	// 7-11 does.
	require.Len(t, files, 5)
	expected := []int{0, 1, 2, 4, 6}
	for i, file := range files {
		assert.Equal(t, fmt.Sprintf("%06d.ts", expected[i]), filepath.Base(file))
	}
	assert.Equal(t, 11, srv.maxIndex)
}

func TestFetchReportsProgress(t *testing.T) {
	srv := newSegmentServer(0, 1)
	server := httptest.NewServer(srv.handler(t))
	defer server.Close()

	job := testJob(server.URL+"/vid-000000.ts?auth=tok", t.TempDir())
	var lastSegments int
	var lastBytes int64
	job.ProgressFunc = func(segments int, bytes int64) {
		lastSegments = segments
		lastBytes = bytes
	}
	client := utils.NewStitchHTTPClient(utils.HTTPClientConfig{})

	files, totalBytes := fetchSegments(job, client)

	require.Len(t, files, 2)
	assert.Equal(t, 2, lastSegments)
	assert.Equal(t, totalBytes, lastBytes)
	assert.Equal(t, int64(len("segment 0 data")+len("segment 1 data")), totalBytes)
}

func TestDownloadSegmentLinearBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := utils.NewStitchHTTPClient(utils.HTTPClientConfig{})
	backoff := 30 * time.Millisecond
	start := time.Now()
	_, err := downloadSegment(server.URL, filepath.Join(t.TempDir(), "000000.ts"), 3, backoff, client)
	elapsed := time.Since(start)

	require.Error(t, err)
	// Sleeps of backoff*1 and backoff*2 between the three attempts, none
	// after the last.
	assert.GreaterOrEqual(t, elapsed, 3*backoff)
	assert.Less(t, elapsed, 20*backoff)
}

func TestDownloadSegmentRetryThenSuccess(t *testing.T) {
	var requestCount int
	var mu sync.Mutex
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requestCount++
		count := requestCount
		mu.Unlock()
		if count < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "final segment data")
	}))
	defer server.Close()

	client := utils.NewStitchHTTPClient(utils.HTTPClientConfig{})
	outputPath := filepath.Join(t.TempDir(), "000000.ts")
	written, err := downloadSegment(server.URL, outputPath, 3, time.Millisecond, client)

	require.NoError(t, err)
	assert.Equal(t, int64(len("final segment data")), written)
	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "final segment data", string(data))
}
