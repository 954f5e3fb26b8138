package download

// Package download implements the download pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp) plus a plain HTTP fetcher for direct
// file links. It caps concurrent extractions with a semaphore, tracks task
// lifecycle for the admin status report, and enforces the configured size
// ceiling before any file reaches the delivery dispatcher.
