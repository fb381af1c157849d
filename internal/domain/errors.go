package domain

import "errors"

var (
	// ErrScopeMismatch means the requested scope references an organizational
	// unit the principal does not belong to. Surfaced to the caller; never
	// retried.
	ErrScopeMismatch = errors.New("requested scope outside principal's organizational membership")

	// ErrStoreTimeout means the task store did not answer within the request
	// deadline. Retryable by the caller with backoff; the core performs no
	// automatic retry to avoid duplicating fan-out work.
	ErrStoreTimeout = errors.New("task store timed out")

	// ErrInternalInconsistency means the post-aggregation consistency check
	// failed. Fatal for the request: a wrong KpiSnapshot must never be
	// returned silently.
	ErrInternalInconsistency = errors.New("aggregated counts do not match task set")

	// ErrUnauthorized means no valid principal could be resolved for the
	// request.
	ErrUnauthorized = errors.New("no valid principal for request")

	// ErrUnknownUnit means a scope parameter references a unit that does not
	// exist in the current hierarchy snapshot.
	ErrUnknownUnit = errors.New("scope references unknown organization unit")
)
