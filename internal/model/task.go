package model

import (
	"strings"
	"time"
)

// DownloadTask represents a single download request as tracked by the
// orchestrator. Tasks exist only for the process lifetime; they back the
// admin /status report and log correlation, nothing is persisted.
type DownloadTask struct {
	ID         string
	URL        string
	FormatSpec string
	Status     TaskStatus
	LastError  string // last error message if any
	OutputPath string // path to downloaded file
	Title      string // media title reported by the extractor
	FileSize   int64  // file size in bytes
	StartedAt  time.Time
	FinishedAt time.Time
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: media title (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	// Second priority: filename from OutputPath
	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}
