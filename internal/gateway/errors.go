// Package gateway holds the server-side use cases: searching the media host
// by tag and uploading validated images, recording new tags in the catalog.
package gateway

import "fmt"

// ValidationKind identifies which input check an upload or search failed.
type ValidationKind string

const (
	KindEmptySelection   ValidationKind = "empty_selection"
	KindMissingImage     ValidationKind = "missing_image"
	KindInvalidType      ValidationKind = "invalid_type"
	KindInvalidExtension ValidationKind = "invalid_extension"
	KindTooLarge         ValidationKind = "too_large"
)

// ValidationError is a client-recoverable rejection of bad input. It maps to
// a 400 at the HTTP boundary and its message is shown to the user as-is.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError wraps a transport or non-2xx failure from the media host or
// the catalog store. It maps to a 500 at the HTTP boundary; the client may
// retry manually.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
