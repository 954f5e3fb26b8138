package platform

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		url      string
		expected Platform
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", YouTube},
		{"https://youtu.be/dQw4w9WgXcQ", YouTube},
		{"HTTPS://WWW.YOUTUBE.COM/WATCH?V=ABC", YouTube},
		{"https://www.instagram.com/p/abc123/", Instagram},
		{"https://twitter.com/user/status/1", Twitter},
		{"https://x.com/user/status/1", Twitter},
		{"https://www.tiktok.com/@user/video/1", TikTok},
		{"https://www.facebook.com/watch/?v=1", Facebook},
		{"https://fb.com/watch/?v=1", Facebook},
		{"https://example.com/archive.zip", DirectBinary},
		{"https://example.com/report.PDF", DirectBinary},
		{"https://example.com/setup.exe?mirror=2", DirectBinary},
		{"https://example.com/clip.mp4", DirectMedia},
		{"https://example.com/song.mp3", DirectMedia},
		{"https://example.com/photo.jpeg#preview", DirectMedia},
		{"https://example.com/some/page", Generic},
		{"https://news.site/article?id=42", Generic},
		{"not even a url", Generic},
	}

	for _, test := range tests {
		if got := Classify(test.url); got != test.expected {
			t.Errorf("Classify(%q) = %s, expected %s", test.url, got, test.expected)
		}
	}
}

func TestClassify_DomainBeatsExtension(t *testing.T) {
	// Domain checks run before extension checks.
	if got := Classify("https://youtube.com/video.mp4"); got != YouTube {
		t.Errorf("Classify() = %s, expected %s", got, YouTube)
	}
}

func TestSupportsQualitySelection(t *testing.T) {
	for _, p := range []Platform{YouTube, Twitter} {
		if !p.SupportsQualitySelection() {
			t.Errorf("%s should support quality selection", p)
		}
	}
	for _, p := range []Platform{Instagram, TikTok, Facebook, DirectMedia, DirectBinary, Generic} {
		if p.SupportsQualitySelection() {
			t.Errorf("%s should not support quality selection", p)
		}
	}
}

func TestIsDirect(t *testing.T) {
	if !DirectBinary.IsDirect() || !DirectMedia.IsDirect() {
		t.Error("direct platforms should report IsDirect")
	}
	if YouTube.IsDirect() || Generic.IsDirect() {
		t.Error("non-direct platforms should not report IsDirect")
	}
}
