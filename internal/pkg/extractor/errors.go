package extractor

import (
	"errors"
	"fmt"
)

// Kind classifies why content could not be extracted.
type Kind string

const (
	KindInvalidURL            Kind = "invalid_url"
	KindTranscriptUnavailable Kind = "transcript_unavailable"
	KindVideoUnavailable      Kind = "video_unavailable"
	KindEmptyTranscript       Kind = "empty_transcript"
	KindScrapeFailed          Kind = "scrape_failed"
	KindInsufficientContent   Kind = "insufficient_content"
)

// ErrExtractionFailed matches every *Error via errors.Is.
var ErrExtractionFailed = errors.New("content extraction failed")

// ErrTranscriptTooShort is wrapped by KindEmptyTranscript when the transcript
// has text but not enough of it.
var ErrTranscriptTooShort = errors.New("transcript is too short")

// Error is a classified extraction failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract: %s", e.Kind)
	}
	return fmt.Sprintf("extract: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrExtractionFailed }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the classification of err, or "" when err is not an extraction error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
