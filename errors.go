package preview

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrOpen is returned when the source image is missing, unreadable or not
	// in the supported format list, and no default preview can stand in.
	ErrOpen = zerr.New("cannot open source image")

	// ErrEncode is returned when a preview cannot be encoded or written to the
	// cache directory.
	ErrEncode = zerr.New("cannot save preview")

	// ErrConfig is returned for an invalid configuration, including a default
	// preview image that is missing or of an unsupported format.
	ErrConfig = zerr.New("invalid preview configuration")

	// ErrTransform is returned when a requested crop does not select any pixels.
	ErrTransform = zerr.New("invalid transformation")
)

// kindError ties a cause to one of the package sentinels so that errors.Is
// matches both.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *kindError) Unwrap() []error {
	return []error{e.kind, e.cause}
}

// classify returns cause tagged with kind, or kind itself when cause is nil.
func classify(kind, cause error) error {
	if cause == nil {
		return kind
	}
	return &kindError{kind: kind, cause: cause}
}

// IsOpenError reports whether err is, or wraps, ErrOpen.
func IsOpenError(err error) bool { return errors.Is(err, ErrOpen) }

// IsEncodeError reports whether err is, or wraps, ErrEncode.
func IsEncodeError(err error) bool { return errors.Is(err, ErrEncode) }

// IsConfigError reports whether err is, or wraps, ErrConfig.
func IsConfigError(err error) bool { return errors.Is(err, ErrConfig) }
