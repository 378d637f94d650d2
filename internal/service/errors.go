// Package service provides shared pipeline infrastructure: the error
// taxonomy, the search-event publisher, and the history recorder.
package service

import "errors"

// Pipeline error taxonomy. Every failing step wraps exactly one of these
// sentinels so callers can branch with errors.Is while still logging the
// underlying cause.
var (
	// ErrUpstreamUnavailable indicates the video platform call did not return
	// success (network failure, timeout, or non-2xx response).
	ErrUpstreamUnavailable = errors.New("video platform unavailable")

	// ErrInvalidResponseShape indicates a platform response was received but
	// is missing required fields.
	ErrInvalidResponseShape = errors.New("video platform returned an unexpected response")

	// ErrRefinementFailed indicates the judgment model returned no usable
	// structured output. The pipeline fails closed: the unfiltered candidate
	// list is never presented as if it had been vetted.
	ErrRefinementFailed = errors.New("relevance refinement failed")

	// ErrCacheStore indicates a category cache store read or write failed.
	// It is never surfaced to end users; the category service falls back to
	// the uncached path instead.
	ErrCacheStore = errors.New("category cache store error")
)

// UserMessage maps a pipeline error to the single human-readable string
// surfaced to callers. Unknown errors get a generic message so internal
// details never leak through the API.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamUnavailable):
		return "The video platform is currently unavailable. Please try again later."
	case errors.Is(err, ErrInvalidResponseShape):
		return "The video platform returned an unexpected response. Please try again later."
	case errors.Is(err, ErrRefinementFailed):
		return "We could not verify result relevance for this search. Please try again."
	default:
		return "An unexpected error occurred while searching."
	}
}
