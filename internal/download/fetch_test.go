package download

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFetch_UsesURLFilename(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file contents"))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewFetcher(dir, 1<<20)

	result, err := fetcher.Fetch(context.Background(), server.URL+"/report.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Base(result.FilePath) != "report.pdf" {
		t.Errorf("filename = %q, expected report.pdf", filepath.Base(result.FilePath))
	}
	if result.SizeBytes != int64(len("file contents")) {
		t.Errorf("SizeBytes = %d", result.SizeBytes)
	}
	if _, err := os.Stat(result.FilePath); err != nil {
		t.Errorf("file missing: %v", err)
	}
}

func TestFetch_UsesContentDisposition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="archive.zip"`)
		w.Write([]byte("zip"))
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 1<<20)

	// URL path gives no usable name; the header does.
	result, err := fetcher.Fetch(context.Background(), server.URL+"/dl")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if filepath.Base(result.FilePath) != "archive.zip" {
		t.Errorf("filename = %q, expected archive.zip", filepath.Base(result.FilePath))
	}
}

func TestFetch_GeneratesFilenameFromContentType(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF"))
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 1<<20)

	result, err := fetcher.Fetch(context.Background(), server.URL+"/x")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	name := filepath.Base(result.FilePath)
	if !strings.HasPrefix(name, "file_") || !strings.HasSuffix(name, ".pdf") {
		t.Errorf("generated filename = %q", name)
	}
}

func TestFetch_RejectsOversizedByHeader(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewFetcher(dir, 1024)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/big.bin")
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should remain, found %d", len(entries))
	}
}

func TestFetch_ChunkedOversizedStopsAtCeiling(t *testing.T) {
	// Flushing before the body forces chunked encoding, so there is no
	// Content-Length for the pre-check and the transfer itself must stop.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		w.Write([]byte(strings.Repeat("x", 64<<10)))
	}))
	defer server.Close()

	dir := t.TempDir()
	fetcher := NewFetcher(dir, 1024)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/stream.bin")
	var tooLarge *FileTooLargeError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected FileTooLargeError, got %v", err)
	}
	// Reads past the ceiling are capped, never the full body.
	if tooLarge.Actual != 1024+1 {
		t.Errorf("Actual = %d, expected the transfer to stop at %d", tooLarge.Actual, 1024+1)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should remain, found %d", len(entries))
	}
}

func TestFetch_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcher(t.TempDir(), 1<<20)

	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing.zip")
	var dlErr *Error
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
}
