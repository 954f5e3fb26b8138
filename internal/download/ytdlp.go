package download

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"github.com/pkg/errors"

	"github.com/2amir563/khodam-down-upload-instagram-youtube-x-facebook/internal/model"
)

// Extractor timeouts
const (
	DefaultProbeTimeout    = 60 * time.Second
	DefaultDownloadTimeout = 15 * time.Minute
)

// OutputTemplate truncates titles to keep filenames within filesystem limits.
const OutputTemplate = "%(title).100s.%(ext)s"

// YTDLPExtractor implements Extractor on top of the yt-dlp CLI via
// github.com/lrstanley/go-ytdlp.
type YTDLPExtractor struct {
	downloadDir     string
	probeTimeout    time.Duration
	downloadTimeout time.Duration
}

// NewYTDLPExtractor creates an extractor writing into downloadDir.
func NewYTDLPExtractor(downloadDir string) *YTDLPExtractor {
	return &YTDLPExtractor{
		downloadDir:     downloadDir,
		probeTimeout:    DefaultProbeTimeout,
		downloadTimeout: DefaultDownloadTimeout,
	}
}

// formatProbe mirrors the fields we need from yt-dlp's --dump-single-json
// output.
type formatProbe struct {
	Title   string `json:"title"`
	Formats []struct {
		FormatID   string  `json:"format_id"`
		Ext        string  `json:"ext"`
		Resolution string  `json:"resolution"`
		FormatNote string  `json:"format_note"`
		Filesize   int64   `json:"filesize"`
		VCodec     string  `json:"vcodec"`
		ACodec     string  `json:"acodec"`
	} `json:"formats"`
}

// ListFormats probes url without downloading and returns the reported
// formats.
func (e *YTDLPExtractor) ListFormats(ctx context.Context, url string) ([]model.FormatInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, e.probeTimeout)
	defer cancel()

	dl := ytdlp.New().
		Quiet().
		NoWarnings().
		SkipDownload().
		NoPlaylist().
		DumpSingleJSON()

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "probe formats")
	}

	var probe formatProbe
	if err := json.Unmarshal([]byte(result.Stdout), &probe); err != nil {
		return nil, errors.Wrap(err, "parse format probe")
	}

	formats := make([]model.FormatInfo, 0, len(probe.Formats))
	for _, f := range probe.Formats {
		formats = append(formats, model.FormatInfo{
			ID:         f.FormatID,
			Ext:        f.Ext,
			Resolution: f.Resolution,
			Note:       f.FormatNote,
			SizeBytes:  f.Filesize,
			VideoCodec: f.VCodec,
			AudioCodec: f.ACodec,
		})
	}
	return formats, nil
}

// Download retrieves url with the given format spec into the download
// directory.
func (e *YTDLPExtractor) Download(ctx context.Context, url, formatSpec string) (*model.DownloadResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.downloadTimeout)
	defer cancel()

	dl := ytdlp.New().
		Format(formatSpec).
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist().
		Output(e.downloadDir + "/" + OutputTemplate)

	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "run yt-dlp")
	}

	info, err := result.GetExtractedInfo()
	if err != nil || len(info) == 0 {
		return nil, errors.New("no extracted info after download")
	}

	var filePath, title string
	if info[0].Filename != nil {
		filePath = *info[0].Filename
	}
	if info[0].Title != nil {
		title = *info[0].Title
	}
	if filePath == "" {
		return nil, errors.New("extractor did not report an output file")
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "stat downloaded file")
	}

	return &model.DownloadResult{
		FilePath:  filePath,
		SizeBytes: stat.Size(),
		Title:     title,
	}, nil
}
