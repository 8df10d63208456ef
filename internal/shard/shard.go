// Package shard maps cache keys to shard indexes. The sharded cache uses it
// to pick which segment owns a key; the mapping must be deterministic so a
// key always lands on the same shard.
package shard

import "hash/fnv"

type Func func(key string) int

// ForKey hashes key into [0, shardCount) using FNV-1a.
func ForKey(key string, shardCount int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(shardCount))
}

type Sharder interface {
	GetShardForKey(key string) int
}

type fnSharder struct {
	fn Func
}

func NewSharder(fn Func) Sharder {
	return &fnSharder{fn: fn}
}

func (s *fnSharder) GetShardForKey(key string) int { return s.fn(key) }

// Distributed spreads keys over count shards by hash.
func Distributed(count int) Sharder {
	return &fnSharder{
		fn: func(key string) int {
			return ForKey(key, count)
		},
	}
}

// Const sends every key to the same shard. Useful in tests that need
// deterministic placement.
func Const(shard int) Sharder {
	return &fnSharder{
		fn: func(key string) int {
			return shard
		},
	}
}
