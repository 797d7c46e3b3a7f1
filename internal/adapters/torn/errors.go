package torn

import "errors"

// Sentinel kinds for game API client errors.
var (
	// ErrRateLimited means the sliding window is full; the caller must skip
	// the call for this attempt and try again next cycle.
	ErrRateLimited = errors.New("api call skipped: rate limit window full")
	ErrRequest     = errors.New("api request failed")
	ErrDecode      = errors.New("api response decode failed")
)
