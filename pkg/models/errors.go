package models

import "errors"

// Sentinel errors separating "must abort this request" failures from
// conditions the scorers recover from internally. Cache I/O problems and
// prediction unavailability never surface here; they degrade in place.
var (
	// ErrProvider marks an embedding provider failure. Fatal for the
	// current request, surfaced to the caller.
	ErrProvider = errors.New("embedding provider request failed")

	// ErrCatalogUnavailable marks a catalog source that could not be read.
	ErrCatalogUnavailable = errors.New("course catalog unavailable")
)
