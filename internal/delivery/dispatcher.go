// Package delivery sends a completed download back to the chat. The reply
// kind is chosen purely from the container extension; the caption always
// carries a truncated title and the size in MB. Delivered files are handed to
// the lifecycle manager whether or not the send succeeded, so a failed send
// never leaks a temp file.
package delivery

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

// Caption and payload limits
const (
	// MaxCaptionTitleLength caps the title portion of a caption
	MaxCaptionTitleLength = 50

	// MaxPayloadMB is the transport's outbound media ceiling (local Bot API
	// server limit). Anything above it is rejected before the send attempt.
	MaxPayloadMB = 2000
)

// Kind is the reply type used for a file.
type Kind int

const (
	KindDocument Kind = iota
	KindAudio
	KindVideo
	KindPhoto
)

var audioExtensions = map[string]bool{
	".mp3": true, ".m4a": true, ".wav": true, ".ogg": true, ".flac": true, ".aac": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".avi": true, ".mkv": true, ".mov": true, ".webm": true, ".flv": true, ".wmv": true,
}

var photoExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".webp": true,
}

// KindForExtension maps a container extension (with dot) to a reply kind.
// Unrecognized extensions fall back to a generic document reply.
func KindForExtension(ext string) Kind {
	ext = strings.ToLower(ext)
	switch {
	case audioExtensions[ext]:
		return KindAudio
	case videoExtensions[ext]:
		return KindVideo
	case photoExtensions[ext]:
		return KindPhoto
	default:
		return KindDocument
	}
}

// Transport abstracts the chat platform's media sends.
type Transport interface {
	SendAudio(chatID int64, filePath, caption string) error
	SendVideo(chatID int64, filePath, caption string) error
	SendPhoto(chatID int64, filePath, caption string) error
	SendDocument(chatID int64, filePath, caption string) error
}

// Tracker receives ownership of the delivered file for eventual deletion.
type Tracker interface {
	Track(path string, ttl time.Duration)
}

// Error is a transport-level send failure. The file is already scheduled for
// cleanup when this error is returned.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return "delivery failed: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Dispatcher sends download results and hands the files to the lifecycle
// manager.
type Dispatcher struct {
	transport Transport
	tracker   Tracker
	fileTTL   time.Duration
	log       *logrus.Logger
}

// NewDispatcher creates a dispatcher. Delivered files are tracked for
// deletion after fileTTL.
func NewDispatcher(transport Transport, tracker Tracker, fileTTL time.Duration, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		transport: transport,
		tracker:   tracker,
		fileTTL:   fileTTL,
		log:       log,
	}
}

// Deliver sends the result to the chat. The file is handed to the lifecycle
// manager in every outcome, including a failed send.
func (d *Dispatcher) Deliver(result *model.DownloadResult, chatID int64) error {
	defer d.tracker.Track(result.FilePath, d.fileTTL)

	if result.SizeBytes > MaxPayloadMB*1024*1024 {
		return &Error{Reason: fmt.Sprintf("payload exceeds transport limit of %dMB", MaxPayloadMB)}
	}

	kind := KindForExtension(result.Extension())
	caption := Caption(kind, result.DisplayTitle(), result.SizeMB())

	var err error
	switch kind {
	case KindAudio:
		err = d.transport.SendAudio(chatID, result.FilePath, caption)
	case KindVideo:
		err = d.transport.SendVideo(chatID, result.FilePath, caption)
	case KindPhoto:
		err = d.transport.SendPhoto(chatID, result.FilePath, caption)
	default:
		err = d.transport.SendDocument(chatID, result.FilePath, caption)
	}
	if err != nil {
		d.log.WithField("chat", chatID).WithError(err).Warn("send failed")
		return &Error{Reason: err.Error(), Err: err}
	}

	d.log.WithFields(logrus.Fields{
		"chat": chatID,
		"file": result.FilePath,
	}).Info("delivered")
	return nil
}

// Caption builds the reply caption: an emoji for the kind, the title
// truncated to MaxCaptionTitleLength, and the size rounded to one decimal.
func Caption(kind Kind, title string, sizeMB float64) string {
	title = trimUTF8(title, MaxCaptionTitleLength)

	var prefix string
	switch kind {
	case KindAudio:
		prefix = "🎵"
	case KindVideo:
		prefix = "📹"
	case KindPhoto:
		prefix = "🖼"
	default:
		prefix = "📄"
	}
	return fmt.Sprintf("%s %s\nSize: %.1fMB", prefix, title, sizeMB)
}

// trimUTF8 shortens s to at most max bytes without splitting a rune. The chat
// API rejects payloads that are not valid UTF-8.
func trimUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
