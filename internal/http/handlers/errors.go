package handlers

// Stable, machine-readable error codes carried in ErrorResponse.Code.
// Clients branch on these; messages are for humans only.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// ErrCodeStoreUnavailable means the message store could not be reached
	// or queried. Retrying later is expected to succeed.
	ErrCodeStoreUnavailable = "store_unavailable"
)
