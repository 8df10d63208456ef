package lru

import "errors"

var (
	// ErrInvalidCapacity is returned by New when Max is not positive.
	ErrInvalidCapacity = errors.New("capacity must be positive")
)
