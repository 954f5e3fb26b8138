package platform

// Package platform classifies incoming URLs into source platforms. The
// classification is a pure function of the URL string; it drives whether the
// bot offers a quality menu, fetches the file directly, or falls back to the
// extractor's default format.
