package download

import (
	"context"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

// Extractor is the external collaborator that resolves a URL into media. It
// owns network retrieval and transcoding selection; the orchestrator owns
// size enforcement and file lifetime.
type Extractor interface {
	// ListFormats returns the formats available for url without downloading.
	ListFormats(ctx context.Context, url string) ([]model.FormatInfo, error)

	// Download retrieves url with the given format spec into the download
	// directory and reports the resulting file.
	Download(ctx context.Context, url, formatSpec string) (*model.DownloadResult, error)
}
