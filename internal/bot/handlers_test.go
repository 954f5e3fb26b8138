package bot

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/download"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/gate"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/platform"
	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/quality"
)

func testSession(t *testing.T, p platform.Platform) quality.Session {
	t.Helper()
	formats := []model.FormatInfo{
		{ID: "f720", Resolution: "1280x720", SizeBytes: 10 << 20, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "f480", Resolution: "854x480", SizeBytes: 4 << 20, VideoCodec: "avc1", AudioCodec: "mp4a"},
	}
	sessions := quality.NewSessions()
	return sessions.SetCatalog(1, "https://example.com/v", p, quality.BuildCatalog(formats, 100))
}

func TestQualityKeyboard_YouTubeHasAudioRow(t *testing.T) {
	keyboard := qualityKeyboard(testSession(t, platform.YouTube))

	// 2 quality rows + audio row + cancel row.
	if len(keyboard.InlineKeyboard) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(keyboard.InlineKeyboard))
	}

	last := keyboard.InlineKeyboard[len(keyboard.InlineKeyboard)-1][0]
	if last.CallbackData == nil || *last.CallbackData != quality.CancelToken {
		t.Error("last row should be the cancel button")
	}

	for _, row := range keyboard.InlineKeyboard {
		for _, button := range row {
			if button.CallbackData == nil {
				t.Fatal("button without callback data")
			}
			if len(*button.CallbackData) > quality.MaxTokenLength {
				t.Errorf("callback data %q exceeds limit", *button.CallbackData)
			}
		}
	}
}

func TestQualityKeyboard_TwitterHasNoAudioRow(t *testing.T) {
	keyboard := qualityKeyboard(testSession(t, platform.Twitter))
	if len(keyboard.InlineKeyboard) != 3 {
		t.Fatalf("expected 3 rows (2 qualities + cancel), got %d", len(keyboard.InlineKeyboard))
	}
}

func TestCatalogSummary_ListsAtMostThree(t *testing.T) {
	formats := []model.FormatInfo{
		{ID: "a", Resolution: "1920x1080", SizeBytes: 20 << 20, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "b", Resolution: "1280x720", SizeBytes: 15 << 20, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "c", Resolution: "854x480", SizeBytes: 10 << 20, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "d", Resolution: "640x360", SizeBytes: 5 << 20, VideoCodec: "avc1", AudioCodec: "mp4a"},
	}
	catalog := quality.BuildCatalog(formats, 100)

	summary := catalogSummary(platform.YouTube, catalog)
	if !strings.Contains(summary, "... and 1 more") {
		t.Errorf("summary should mention the hidden option: %q", summary)
	}
	if !strings.Contains(summary, "YouTube") {
		t.Errorf("summary should name the platform: %q", summary)
	}
}

func TestDenialText(t *testing.T) {
	paused := denialText(gate.Decision{State: gate.StatePaused, Remaining: 90 * time.Minute})
	if !strings.Contains(paused, "1h 30m") {
		t.Errorf("paused denial = %q", paused)
	}

	blocked := denialText(gate.Decision{State: gate.StateOutsideWindow, Window: "08:00-23:00"})
	if !strings.Contains(blocked, "08:00-23:00") {
		t.Errorf("window denial = %q", blocked)
	}
}

func TestErrorText(t *testing.T) {
	tooLarge := errorText(&download.FileTooLargeError{Actual: 45 << 20, Max: 30 << 20})
	if !strings.Contains(tooLarge, "45.0MB") || !strings.Contains(tooLarge, "30MB") {
		t.Errorf("too-large text = %q", tooLarge)
	}

	long := strings.Repeat("x", 500)
	dlText := errorText(&download.Error{Reason: long})
	if len(dlText) > maxReasonLength+len("❌ Download error: ") {
		t.Errorf("download error text not truncated: %d bytes", len(dlText))
	}
}

func TestErrorText_TruncationKeepsValidUTF8(t *testing.T) {
	// Extractor errors quote the page title, so the reason can be multi-byte
	// text; a cut mid-rune would make the reply invalid UTF-8.
	reason := "yt-dlp: " + strings.Repeat("خطا", 60)
	text := errorText(&download.Error{Reason: reason})

	if !utf8.ValidString(text) {
		t.Fatalf("error text is not valid UTF-8: %q", text)
	}
	if len(text) > maxReasonLength+len("❌ Download error: ") {
		t.Errorf("error text not truncated: %d bytes", len(text))
	}
}
