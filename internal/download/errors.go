package download

import "fmt"

// Error is any extractor or network failure normalized at the orchestrator
// boundary. Nothing from the extractor propagates past it unwrapped.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return "download failed: " + e.Reason
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FileTooLargeError means the downloaded file exceeded the configured size
// ceiling. The file is already deleted when this error is returned.
type FileTooLargeError struct {
	Actual int64
	Max    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file too large: %.1fMB > %.0fMB",
		float64(e.Actual)/(1024*1024), float64(e.Max)/(1024*1024))
}
