package domain

import "fmt"

// ErrorKind identifies one failure class of the editing core.
type ErrorKind string

const (
	KindSynthesisFailed        ErrorKind = "synthesis_failed"
	KindAlignmentMalformed     ErrorKind = "alignment_malformed"
	KindDelimiterMismatch      ErrorKind = "delimiter_mismatch"
	KindUnsupportedCodec       ErrorKind = "unsupported_codec"
	KindMediaAcquisitionFailed ErrorKind = "media_acquisition_failed"
	KindStaleResult            ErrorKind = "stale_result"
)

// Error is a kind-aware failure with an optional wrapped cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

// Error formats the failure for logs and UI.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a kind-tagged error with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError builds a kind-tagged error around an existing cause.
func WrapError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		if typed, ok := err.(*Error); ok && typed.Kind == kind {
			return true
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}
