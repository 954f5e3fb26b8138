package platform

import "strings"

// Platform identifies the source a URL points at. It is derived purely from
// domain and extension pattern matching and never fails; unrecognized URLs
// map to Generic.
type Platform string

const (
	YouTube      Platform = "youtube"
	Instagram    Platform = "instagram"
	Twitter      Platform = "twitter"
	TikTok       Platform = "tiktok"
	Facebook     Platform = "facebook"
	DirectBinary Platform = "direct_binary"
	DirectMedia  Platform = "direct_media"
	Generic      Platform = "generic"
)

// binaryExtensions are archive/document/executable extensions that are
// fetched directly and always delivered as documents.
var binaryExtensions = []string{
	".exe", ".zip", ".rar", ".7z", ".tar", ".gz",
	".pdf", ".doc", ".docx", ".xls", ".xlsx", ".ppt", ".pptx",
}

// mediaExtensions are audio/video/image extensions fetched directly with
// their original container preserved.
var mediaExtensions = []string{
	".mp4", ".mp3", ".avi", ".mkv", ".mov", ".webm",
	".wav", ".flac", ".ogg", ".m4a",
	".jpg", ".jpeg", ".png", ".gif", ".bmp",
}

// Classify maps a URL to its platform. Checks run in a fixed priority order
// and the first match wins: known domains, then binary extensions, then media
// extensions. Matching is case-insensitive.
func Classify(rawURL string) Platform {
	url := strings.ToLower(rawURL)

	switch {
	case strings.Contains(url, "youtube.com"), strings.Contains(url, "youtu.be"):
		return YouTube
	case strings.Contains(url, "instagram.com"):
		return Instagram
	case strings.Contains(url, "twitter.com"), strings.Contains(url, "x.com"):
		return Twitter
	case strings.Contains(url, "tiktok.com"):
		return TikTok
	case strings.Contains(url, "facebook.com"), strings.Contains(url, "fb.com"):
		return Facebook
	}

	// Extension checks ignore query string and fragment.
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}

	for _, ext := range binaryExtensions {
		if strings.HasSuffix(path, ext) {
			return DirectBinary
		}
	}
	for _, ext := range mediaExtensions {
		if strings.HasSuffix(path, ext) {
			return DirectMedia
		}
	}

	return Generic
}

// String returns the string representation of the platform.
func (p Platform) String() string {
	return string(p)
}

// SupportsQualitySelection reports whether the bot offers a quality menu for
// this platform. Other platforms download with a single default format.
func (p Platform) SupportsQualitySelection() bool {
	return p == YouTube || p == Twitter
}

// IsDirect reports whether the URL points straight at a file and should be
// fetched over plain HTTP instead of the extractor.
func (p Platform) IsDirect() bool {
	return p == DirectBinary || p == DirectMedia
}

// DisplayName returns a capitalized human-readable platform name.
func (p Platform) DisplayName() string {
	switch p {
	case YouTube:
		return "YouTube"
	case Instagram:
		return "Instagram"
	case Twitter:
		return "Twitter/X"
	case TikTok:
		return "TikTok"
	case Facebook:
		return "Facebook"
	case DirectBinary, DirectMedia:
		return "Direct file"
	default:
		return "Generic"
	}
}
