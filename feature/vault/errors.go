package vault

import (
	"errors"
	"fmt"
)

// Kind categorises a vault error without exposing backend-specific codes.
// Every operation maps its backend failures onto one of these kinds, giving
// callers a single consistent API.
type Kind int

const (
	KindUnknown  Kind = iota
	KindPresign       // pre-signed URL generation failed
	KindMetadata      // version/metadata lookup failed
	KindWrite         // create or delete failed
	KindNotFound      // 404-equivalent: nothing under the prefix
)

func (k Kind) String() string {
	switch k {
	case KindPresign:
		return "presign_error"
	case KindMetadata:
		return "metadata_error"
	case KindWrite:
		return "write_error"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all vault operations.
// Message is fixed human-readable text. Cause keeps the backend error for
// errors.Is/As traversal and diagnostics logging but is never rendered, so
// backend detail does not leak to callers.
type Error struct {
	Kind    Kind
	Message string
	// FailedKeys lists the object keys whose delete failed. Set only by
	// DeleteFolder when some per-object deletes did not succeed.
	FailedKeys []string
	Cause      error
}

func (e *Error) Error() string {
	if len(e.FailedKeys) > 0 {
		return fmt.Sprintf("[%s] %s (%d keys failed)", e.Kind, e.Message, len(e.FailedKeys))
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// IsPresign reports whether err is a pre-signed URL generation failure.
func IsPresign(err error) bool {
	return kindOf(err) == KindPresign
}

// IsMetadata reports whether err is a version/metadata lookup failure.
func IsMetadata(err error) bool {
	return kindOf(err) == KindMetadata
}

// IsWrite reports whether err is a create or delete failure.
func IsWrite(err error) bool {
	return kindOf(err) == KindWrite
}

// IsNotFound reports whether err represents a missing folder.
func IsNotFound(err error) bool {
	return kindOf(err) == KindNotFound
}

// kindOf extracts the Kind from any error in the chain.
func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
