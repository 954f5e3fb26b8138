package quality

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Telegram rejects callback data above 64 bytes, so tokens are opaque
// references into the session's live catalog instead of serialized format
// specs. A format spec may contain any punctuation the extractor understands;
// embedding it in the token and splitting on a delimiter is how stale or
// corrupted selections sneak through.
const (
	// MaxTokenLength is the transport's callback-data limit in bytes
	MaxTokenLength = 64

	// CancelToken is the reserved sentinel for the cancel button. It never
	// collides with an option token because option tokens always carry a
	// prefix and a generation.
	CancelToken = "cancel"

	optionTokenPrefix = "d"
	audioTokenPrefix  = "a"
	tokenSeparator    = ":"
)

var (
	// ErrTokenInvalid means the token is empty, malformed, or indexes
	// outside the live catalog.
	ErrTokenInvalid = errors.New("quality: invalid selection token")

	// ErrTokenStale means the token was minted for a catalog that has since
	// been replaced by a newer URL.
	ErrTokenStale = errors.New("quality: selection token is stale")
)

// Selection is a decoded token: either one option from the live catalog or
// the reserved audio-only choice.
type Selection struct {
	AudioOnly bool
	Option    Option
}

// EncodeOption returns the token for the catalog entry at index under the
// given session generation, e.g. "d:3:0".
func EncodeOption(generation uint64, index int) string {
	return optionTokenPrefix + tokenSeparator +
		strconv.FormatUint(generation, 10) + tokenSeparator +
		strconv.Itoa(index)
}

// EncodeAudio returns the reserved audio-only token for a generation.
func EncodeAudio(generation uint64) string {
	return audioTokenPrefix + tokenSeparator + strconv.FormatUint(generation, 10)
}

// decodeToken parses a token against the given live catalog and generation.
// It never substitutes an option: any mismatch fails with ErrTokenStale or
// ErrTokenInvalid.
func decodeToken(token string, catalog []Option, generation uint64) (Selection, error) {
	if token == "" || len(token) > MaxTokenLength {
		return Selection{}, ErrTokenInvalid
	}

	prefix, rest, ok := strings.Cut(token, tokenSeparator)
	if !ok {
		return Selection{}, ErrTokenInvalid
	}

	switch prefix {
	case audioTokenPrefix:
		gen, err := strconv.ParseUint(rest, 10, 64)
		if err != nil {
			return Selection{}, ErrTokenInvalid
		}
		if gen != generation {
			return Selection{}, ErrTokenStale
		}
		return Selection{AudioOnly: true}, nil

	case optionTokenPrefix:
		genPart, idxPart, ok := strings.Cut(rest, tokenSeparator)
		if !ok {
			return Selection{}, ErrTokenInvalid
		}
		gen, err := strconv.ParseUint(genPart, 10, 64)
		if err != nil {
			return Selection{}, ErrTokenInvalid
		}
		index, err := strconv.Atoi(idxPart)
		if err != nil {
			return Selection{}, ErrTokenInvalid
		}
		if gen != generation {
			return Selection{}, ErrTokenStale
		}
		if index < 0 || index >= len(catalog) {
			return Selection{}, ErrTokenInvalid
		}
		return Selection{Option: catalog[index]}, nil

	default:
		return Selection{}, ErrTokenInvalid
	}
}
