// Package remux optionally rewraps downloads whose container is outside the
// accepted set into MP4 using ffmpeg stream copy. It is an explicit post-
// processing step behind a config flag, never a silent requirement: with the
// flag off, files are delivered in whatever container the extractor produced.
package remux

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FFmpeg invocation constants
const (
	FFmpegCommand   = "ffmpeg"
	CopyCodec       = "copy"
	FastStartFlag   = "+faststart"
	TargetExtension = ".mp4"

	DefaultTimeout = 5 * time.Minute
)

// acceptedContainers pass through untouched.
var acceptedContainers = map[string]bool{
	".mp4": true, ".webm": true, ".mov": true, ".mkv": true, ".avi": true,
	".mp3": true, ".m4a": true, ".wav": true, ".ogg": true, ".flac": true,
}

// Service rewraps off-list containers into MP4.
type Service struct {
	enabled bool
	timeout time.Duration
	log     *logrus.Logger
}

// NewService creates a remux service. When enabled is false, Process is a
// pass-through.
func NewService(enabled bool, log *logrus.Logger) *Service {
	return &Service{
		enabled: enabled,
		timeout: DefaultTimeout,
		log:     log,
	}
}

// NeedsRemux reports whether the extension (with dot) is outside the accepted
// container set.
func NeedsRemux(ext string) bool {
	return ext != "" && !acceptedContainers[strings.ToLower(ext)]
}

// Process returns the path to deliver for inputPath. When the service is
// disabled, the container is accepted, or the remux fails, the original path
// is returned unchanged; a failed remux is logged, not fatal.
func (s *Service) Process(ctx context.Context, inputPath string) string {
	ext := strings.ToLower(filepath.Ext(inputPath))
	if !s.enabled || !NeedsRemux(ext) {
		return inputPath
	}

	outputPath, err := s.remux(ctx, inputPath)
	if err != nil {
		s.log.WithField("file", filepath.Base(inputPath)).WithError(err).Warn("remux failed, delivering original container")
		return inputPath
	}

	// The original is gone once the remuxed copy exists; keeping both would
	// double storage until the sweep.
	if err := os.Remove(inputPath); err != nil && !os.IsNotExist(err) {
		s.log.WithField("file", filepath.Base(inputPath)).WithError(err).Warn("failed to delete pre-remux file")
	}
	return outputPath
}

func (s *Service) remux(ctx context.Context, inputPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	outputPath := outputPathFor(inputPath)

	cmd := exec.CommandContext(ctx, FFmpegCommand,
		"-y",
		"-i", inputPath,
		"-c", CopyCodec,
		"-movflags", FastStartFlag,
		outputPath,
	)
	if output, err := cmd.CombinedOutput(); err != nil {
		os.Remove(outputPath)
		return "", errors.Wrapf(err, "ffmpeg: %s", lastLine(string(output)))
	}

	if _, err := os.Stat(outputPath); err != nil {
		return "", errors.Wrap(err, "remux output missing")
	}
	return outputPath, nil
}

func outputPathFor(inputPath string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + TargetExtension
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
