package dispatch

import "errors"

// ErrSolveFailed is returned when the engine itself failed a solve
// before the deadline.
var ErrSolveFailed = errors.New("solve failed")

// ErrTimedOut is returned when the deadline elapsed while waiting for
// a solve. The underlying unit is unaffected: it keeps running and its
// eventual result is discarded.
var ErrTimedOut = errors.New("solve timed out")

// ErrAllProvidersFailed is returned in multi-provider mode when every
// unit failed or timed out.
var ErrAllProvidersFailed = errors.New("all providers failed")

// ErrNoProviders is returned when a request names no providers at all.
var ErrNoProviders = errors.New("no providers in request")
