package memo

import "errors"

var (
	// ErrKeyEncoding is returned when a function argument cannot be encoded
	// into a cache key.
	ErrKeyEncoding = errors.New("encode memoization key")
)
