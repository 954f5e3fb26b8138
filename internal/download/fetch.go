package download

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

// Fetcher limits
const (
	DefaultFetchTimeout = 60 * time.Second
	MinFilenameLength   = 3
	fallbackExtension   = ".bin"
)

// Fetcher downloads direct file links over plain HTTP, preserving the
// original container. It is used for DirectBinary and DirectMedia URLs that
// never go through the extractor.
type Fetcher struct {
	client      *http.Client
	downloadDir string
	maxBytes    int64
}

// NewFetcher creates a fetcher writing into downloadDir. Files larger than
// maxBytes are deleted and rejected after the transfer completes.
func NewFetcher(downloadDir string, maxBytes int64) *Fetcher {
	return &Fetcher{
		client:      &http.Client{Timeout: DefaultFetchTimeout},
		downloadDir: downloadDir,
		maxBytes:    maxBytes,
	}
}

// Fetch streams rawURL to a local file. The filename comes from the URL path,
// then the Content-Disposition header, then a generated name with a
// MIME-guessed extension.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.DownloadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{Reason: "invalid URL", Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{Reason: "request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := errors.Errorf("unexpected status %s", resp.Status)
		return nil, &Error{Reason: err.Error(), Err: err}
	}

	// Pre-check the declared length so an obviously oversized file is
	// rejected before any bytes are transferred.
	if resp.ContentLength > f.maxBytes {
		return nil, &FileTooLargeError{Actual: resp.ContentLength, Max: f.maxBytes}
	}

	filename := filenameFor(rawURL, resp)
	filePath := filepath.Join(f.downloadDir, filename)

	out, err := os.Create(filePath)
	if err != nil {
		return nil, &Error{Reason: "cannot create file", Err: err}
	}

	// Stop one byte past the ceiling so a response without Content-Length
	// cannot fill the download directory before the size check.
	written, err := io.Copy(out, io.LimitReader(resp.Body, f.maxBytes+1))
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		os.Remove(filePath)
		if err == nil {
			err = closeErr
		}
		return nil, &Error{Reason: "transfer failed: " + err.Error(), Err: err}
	}

	if written > f.maxBytes {
		os.Remove(filePath)
		return nil, &FileTooLargeError{Actual: written, Max: f.maxBytes}
	}

	return &model.DownloadResult{
		FilePath:  filePath,
		SizeBytes: written,
		Title:     filename,
	}, nil
}

// filenameFor picks a local filename for the response, preferring the URL
// path, then Content-Disposition, then a generated name.
func filenameFor(rawURL string, resp *http.Response) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); len(name) >= MinFilenameLength && name != "/" && name != "." {
			return name
		}
	}

	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			if name := params["filename"]; len(name) >= MinFilenameLength {
				return filepath.Base(name)
			}
		}
	}

	ext := fallbackExtension
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
			if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
				ext = exts[0]
			}
		}
	}
	return fmt.Sprintf("file_%s%s", uuid.NewString()[:8], ext)
}
