package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrBadRequest = errors.New("bad request")

	// ErrDispatchTransport marks a dispatch where the push gateway could not be reached for any batch.
	ErrDispatchTransport = errors.New("push gateway unreachable")
	// ErrPrune marks a failed best-effort deletion of a dead device token.
	ErrPrune = errors.New("prune device token")
)
