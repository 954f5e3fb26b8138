package quality

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

// Catalog limits
const (
	// MaxCatalogSize caps how many options are offered per video
	MaxCatalogSize = 5

	// MaxLabelLength caps the human-readable button label
	MaxLabelLength = 50
)

// Option is one selectable quality: a label shown on the keyboard button, the
// format spec passed verbatim to the extractor, and the estimated size.
// Options are immutable once the catalog is built; Token is assigned when the
// catalog becomes live in a session.
type Option struct {
	Label      string
	FormatSpec string
	Ext        string
	SizeMB     float64
	Token      string

	height int // parsed resolution height, sort key
}

// BuildCatalog turns the extractor's format list into an ordered catalog of
// at most MaxCatalogSize options. Formats with unknown size, audio-only
// formats, and formats whose estimated size exceeds maxSizeMB are dropped.
// The result is sorted by descending resolution, ties broken by descending
// size.
func BuildCatalog(formats []model.FormatInfo, maxSizeMB float64) []Option {
	options := make([]Option, 0, len(formats))

	for i := range formats {
		f := &formats[i]
		if f.SizeBytes <= 0 {
			continue
		}
		if f.IsAudioOnly() {
			continue
		}

		sizeMB := float64(f.SizeBytes) / (1024 * 1024)
		if sizeMB > maxSizeMB {
			continue
		}

		note := f.Note
		if note == "" {
			note = f.Resolution
		}

		options = append(options, Option{
			Label:      buildLabel(note, f.Resolution, sizeMB),
			FormatSpec: f.ID,
			Ext:        f.Ext,
			SizeMB:     sizeMB,
			height:     resolutionHeight(f.Resolution),
		})
	}

	sort.SliceStable(options, func(i, j int) bool {
		if options[i].height != options[j].height {
			return options[i].height > options[j].height
		}
		return options[i].SizeMB > options[j].SizeMB
	})

	if len(options) > MaxCatalogSize {
		options = options[:MaxCatalogSize]
	}
	return options
}

func buildLabel(note, resolution string, sizeMB float64) string {
	label := fmt.Sprintf("%s (%s) - %.1fMB", note, resolution, sizeMB)
	if len(label) > MaxLabelLength {
		cut := MaxLabelLength - 3
		// Back up to a rune boundary so the label stays valid UTF-8.
		for cut > 0 && !utf8.RuneStart(label[cut]) {
			cut--
		}
		label = label[:cut] + "..."
	}
	return label
}

// resolutionHeight extracts the vertical resolution from strings like
// "1920x1080", "1080p" or "720p60". Unknown formats sort last with height 0.
func resolutionHeight(resolution string) int {
	res := strings.ToLower(strings.TrimSpace(resolution))
	if res == "" || res == "n/a" {
		return 0
	}

	if _, h, ok := strings.Cut(res, "x"); ok {
		if n, err := strconv.Atoi(h); err == nil {
			return n
		}
		return 0
	}

	digits := res
	for i, r := range res {
		if r < '0' || r > '9' {
			digits = res[:i]
			break
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}
