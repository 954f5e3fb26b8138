package model

import (
	"path/filepath"
	"strings"
)

// DownloadResult is the outcome of a completed download. The orchestrator
// owns it until it is handed to the delivery dispatcher; ownership of the
// underlying file passes to the lifecycle manager once delivery finishes.
type DownloadResult struct {
	FilePath  string
	SizeBytes int64
	Title     string
}

// SizeMB returns the file size in megabytes.
func (r *DownloadResult) SizeMB() float64 {
	return float64(r.SizeBytes) / (1024 * 1024)
}

// Extension returns the lower-cased container extension including the dot,
// e.g. ".mp4". Empty when the file has no extension.
func (r *DownloadResult) Extension() string {
	return strings.ToLower(filepath.Ext(r.FilePath))
}

// DisplayTitle returns the declared title, falling back to the file name.
func (r *DownloadResult) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return filepath.Base(r.FilePath)
}

// FormatInfo describes one media format reported by the extractor for a URL.
type FormatInfo struct {
	ID         string
	Ext        string
	Resolution string // "1920x1080", "720p" or "audio only"
	Note       string // extractor format note, e.g. "1080p60"
	SizeBytes  int64  // 0 when the extractor does not know the size
	VideoCodec string // "none" for audio-only formats
	AudioCodec string // "none" for video-only formats
}

// IsAudioOnly reports whether the format carries no video stream.
func (f *FormatInfo) IsAudioOnly() bool {
	if strings.EqualFold(strings.TrimSpace(f.Resolution), "audio only") {
		return true
	}
	return f.VideoCodec == "none" && f.AudioCodec != "" && f.AudioCodec != "none"
}
