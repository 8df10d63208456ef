package cache

import "errors"

var (
	// ErrSweepWithoutTTL rejects starting a background sweeper on a cache
	// whose entries never expire.
	ErrSweepWithoutTTL = errors.New("sweeper requires a TTL")
)
