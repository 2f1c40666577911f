package model

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the repository and service layers.
// Handlers translate these to HTTP status codes; callers inside a
// reconciliation pass use them to decide skip-vs-abort.
var (
	// ErrNotFound: the referenced video or song id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStorageBusy: the store rejected a write because a concurrent
	// writer holds a conflicting lock. Retryable; never silent corruption.
	ErrStorageBusy = errors.New("storage busy")

	// ErrExtractionFailed: the text-generation call failed, timed out, or
	// returned unparseable content. The affected video stays pending.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrCatalogSync: the catalog provider was unreachable or returned a
	// malformed page. The sync run is abandoned; synced rows are untouched.
	ErrCatalogSync = errors.New("catalog sync failed")
)

// ValidationError rejects a request before any write is constructed,
// e.g. a field-update naming a column outside the editable allow-list.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
	}
	return "validation: " + e.Reason
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
