package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	vegeta "github.com/tsenart/vegeta/v12/lib"
)

func TestWarmCacheSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/metrics/backend", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, warmCache(srv.URL, "backend"))
}

func TestRunLoadTestCreatesResultsFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tmpFile := filepath.Join(t.TempDir(), "results.bin")
	prev := resultsFile
	resultsFile = tmpFile
	defer func() { resultsFile = prev }()

	require.NoError(t, runLoadTest(srv.URL, 1, 20*time.Millisecond, "backend"))

	info, err := os.Stat(tmpFile)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestMetricsTargeterRotatesEndpoints(t *testing.T) {
	targeter := newMetricsTargeter("http://localhost:8080", "backend")

	var urls []string
	for i := 0; i < 5; i++ {
		var target vegeta.Target
		require.NoError(t, targeter(&target))
		urls = append(urls, target.URL)
	}

	require.Equal(t, "http://localhost:8080/api/metrics/backend", urls[0])
	require.Equal(t, "http://localhost:8080/api/teams/metrics", urls[1])
	require.Equal(t, "http://localhost:8080/api/cache/stats", urls[2])
	require.Equal(t, "http://localhost:8080/api/users/global", urls[3])
	require.Equal(t, urls[0], urls[4])
}

func TestRenderReportReadsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "results.bin")
	file, err := os.Create(tmpFile)
	require.NoError(t, err)
	enc := vegeta.NewEncoder(file)
	now := time.Now()
	require.NoError(t, enc.Encode(&vegeta.Result{
		Code:      http.StatusOK,
		Timestamp: now,
		Latency:   time.Millisecond,
		BytesIn:   10,
		BytesOut:  5,
	}))
	require.NoError(t, enc.Encode(&vegeta.Result{
		Code:      http.StatusNotFound,
		Timestamp: now.Add(time.Millisecond),
		Latency:   2 * time.Millisecond,
	}))
	require.NoError(t, file.Close())

	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, tmpFile))
	require.Contains(t, buf.String(), "Requests      [total")
}

func TestWritePlotInstructions(t *testing.T) {
	var buf bytes.Buffer
	prev := resultsFile
	resultsFile = "custom.bin"
	defer func() { resultsFile = prev }()

	writePlotInstructions(&buf)
	output := buf.String()
	require.Contains(t, output, "vegeta plot custom.bin")
	require.Contains(t, output, "go install github.com/tsenart/vegeta/v12@latest")
}
