package ukrposhta

import (
	"errors"
	"fmt"
)

// RejectedError is a non-2xx response from the carrier. Status and Body
// carry the raw rejection so operators can see what the carrier disliked.
type RejectedError struct {
	Op     string
	Status int
	Body   string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s rejected: HTTP %d: %s", e.Op, e.Status, e.Body)
}

// Is implements errors.Is for RejectedError.
func (e *RejectedError) Is(target error) bool {
	t, ok := target.(*RejectedError)
	if !ok {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

// UnreachableError is a network-level failure (connection refused, timeout).
// Timeouts are not retried here; callers may layer retry policy externally.
type UnreachableError struct {
	Op    string
	Cause error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("%s: carrier unreachable: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *UnreachableError) Unwrap() error { return e.Cause }

// Sentinel errors for carrier-specific scenarios.
var (
	// ErrNotDeletable indicates a delete was rejected because the shipment
	// has already been processed. Only CREATED shipments can be deleted.
	ErrNotDeletable = errors.New("cannot delete shipment: only freshly created shipments can be deleted")
)

// IsRejected reports whether err is a carrier rejection and returns it.
func IsRejected(err error) (*RejectedError, bool) {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected, true
	}
	return nil, false
}

// IsUnreachable reports whether err is a network-level failure.
func IsUnreachable(err error) bool {
	var unreachable *UnreachableError
	return errors.As(err, &unreachable)
}
