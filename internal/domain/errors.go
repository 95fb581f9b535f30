package domain

import "errors"

// Error kinds surfaced to callers. Adapters and services wrap one of these
// alongside the underlying cause so handlers can map them with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrConflict      = errors.New("conflict")
	ErrConfiguration = errors.New("configuration error")
	ErrUpstream      = errors.New("upstream failure")
	ErrStore         = errors.New("store failure")
)

// Kind returns a short label for the error kind wrapped by err.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrStore):
		return "store"
	default:
		return "internal"
	}
}
