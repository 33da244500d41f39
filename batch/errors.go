package batch

import "errors"

// Item failures. They are wrapped with the underlying cause and
// never abort the rest of a batch.
var (
	ErrNoMetadataMatch  = errors.New("no metadata match")
	ErrNoCandidateMatch = errors.New("no matching audio source")
	ErrFetchFailed      = errors.New("fetch failed")
	ErrUserCancelled    = errors.New("cancelled by user")
	ErrMalformedInput   = errors.New("malformed input")
)
