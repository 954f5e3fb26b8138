package quality

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

const mb = 1024 * 1024

func TestBuildCatalog_SortsByResolutionThenSize(t *testing.T) {
	formats := []model.FormatInfo{
		{ID: "f480", Resolution: "854x480", SizeBytes: 8 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "f1080", Resolution: "1920x1080", SizeBytes: 50 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "f720", Resolution: "1280x720", SizeBytes: 20 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
	}

	catalog := BuildCatalog(formats, 100)
	if len(catalog) != 3 {
		t.Fatalf("Expected 3 options, got %d", len(catalog))
	}
	if catalog[0].FormatSpec != "f1080" {
		t.Errorf("Expected 1080p first, got %s", catalog[0].FormatSpec)
	}
	if catalog[1].FormatSpec != "f720" || catalog[2].FormatSpec != "f480" {
		t.Errorf("Unexpected order: %s, %s", catalog[1].FormatSpec, catalog[2].FormatSpec)
	}
}

func TestBuildCatalog_TieBrokenBySize(t *testing.T) {
	formats := []model.FormatInfo{
		{ID: "small", Resolution: "1280x720", SizeBytes: 10 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "big", Resolution: "1280x720", SizeBytes: 25 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
	}

	catalog := BuildCatalog(formats, 100)
	if len(catalog) != 2 || catalog[0].FormatSpec != "big" {
		t.Fatalf("Expected the larger 720p first, got %+v", catalog)
	}
}

func TestBuildCatalog_FiltersOversizedUnknownAndAudioOnly(t *testing.T) {
	// End-to-end filter case: 1080p/50MB, 720p/20MB, 480p/8MB with a 30MB
	// ceiling yields exactly [720p, 480p].
	formats := []model.FormatInfo{
		{ID: "f1080", Resolution: "1920x1080", SizeBytes: 50 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "f720", Resolution: "1280x720", SizeBytes: 20 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "f480", Resolution: "854x480", SizeBytes: 8 * mb, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "nosize", Resolution: "1280x720", SizeBytes: 0, VideoCodec: "avc1", AudioCodec: "mp4a"},
		{ID: "audio", Resolution: "audio only", SizeBytes: 5 * mb, VideoCodec: "none", AudioCodec: "opus"},
	}

	catalog := BuildCatalog(formats, 30)
	if len(catalog) != 2 {
		t.Fatalf("Expected exactly 2 options, got %d: %+v", len(catalog), catalog)
	}
	if catalog[0].FormatSpec != "f720" || catalog[1].FormatSpec != "f480" {
		t.Errorf("Expected [f720, f480], got [%s, %s]", catalog[0].FormatSpec, catalog[1].FormatSpec)
	}
}

func TestBuildCatalog_CapsAtMaxSize(t *testing.T) {
	formats := make([]model.FormatInfo, 0, 8)
	for i := 0; i < 8; i++ {
		formats = append(formats, model.FormatInfo{
			ID:         string(rune('a' + i)),
			Resolution: "1280x720",
			SizeBytes:  int64(i+1) * mb,
			VideoCodec: "avc1",
			AudioCodec: "mp4a",
		})
	}

	catalog := BuildCatalog(formats, 100)
	if len(catalog) != MaxCatalogSize {
		t.Errorf("Expected catalog capped at %d, got %d", MaxCatalogSize, len(catalog))
	}
}

func TestBuildCatalog_LabelTruncated(t *testing.T) {
	formats := []model.FormatInfo{{
		ID:         "f1",
		Resolution: "1920x1080",
		Note:       strings.Repeat("very long format note ", 5),
		SizeBytes:  10 * mb,
		VideoCodec: "avc1",
		AudioCodec: "mp4a",
	}}

	catalog := BuildCatalog(formats, 100)
	if len(catalog) != 1 {
		t.Fatalf("Expected 1 option, got %d", len(catalog))
	}
	if len(catalog[0].Label) > MaxLabelLength {
		t.Errorf("Label not truncated: %d bytes", len(catalog[0].Label))
	}
	if !strings.HasSuffix(catalog[0].Label, "...") {
		t.Errorf("Truncated label should end with ellipsis, got %q", catalog[0].Label)
	}
}

func TestBuildCatalog_LabelTruncationKeepsValidUTF8(t *testing.T) {
	// A note of multi-byte runes means the byte cut can land mid-rune; the
	// chat API rejects keyboards with labels that are not valid UTF-8.
	formats := []model.FormatInfo{{
		ID:         "f1",
		Resolution: "1920x1080",
		Note:       strings.Repeat("کیفیت", 10),
		SizeBytes:  10 * mb,
		VideoCodec: "avc1",
		AudioCodec: "mp4a",
	}}

	catalog := BuildCatalog(formats, 100)
	if len(catalog) != 1 {
		t.Fatalf("Expected 1 option, got %d", len(catalog))
	}
	if !utf8.ValidString(catalog[0].Label) {
		t.Errorf("Label is not valid UTF-8: %q", catalog[0].Label)
	}
	if len(catalog[0].Label) > MaxLabelLength {
		t.Errorf("Label not truncated: %d bytes", len(catalog[0].Label))
	}
}

func TestResolutionHeight(t *testing.T) {
	tests := []struct {
		resolution string
		expected   int
	}{
		{"1920x1080", 1080},
		{"1280x720", 720},
		{"720p", 720},
		{"720p60", 720},
		{"audio only", 0},
		{"N/A", 0},
		{"", 0},
	}

	for _, test := range tests {
		if got := resolutionHeight(test.resolution); got != test.expected {
			t.Errorf("resolutionHeight(%q) = %d, expected %d", test.resolution, got, test.expected)
		}
	}
}
