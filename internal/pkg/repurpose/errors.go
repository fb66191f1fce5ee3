package repurpose

import (
	"errors"
	"fmt"
)

// Kind classifies a generation failure.
type Kind string

const (
	KindUpstream          Kind = "upstream"
	KindMalformedResponse Kind = "malformed_response"
	KindValidationFailed  Kind = "validation_failed"
)

// ErrGenerationFailed matches every *Error via errors.Is.
var ErrGenerationFailed = errors.New("content generation failed")

// ErrUnknownPlatform is returned by NormalizePlatforms.
var ErrUnknownPlatform = errors.New("unknown platform")

// Error is a classified generation failure.
type Error struct {
	Kind     Kind
	Platform string
	Err      error
}

func (e *Error) Error() string {
	if e.Platform != "" {
		return fmt.Sprintf("generate: %s (%s): %v", e.Kind, e.Platform, e.Err)
	}
	return fmt.Sprintf("generate: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrGenerationFailed }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the classification of err, or "" when err is not a generation error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
