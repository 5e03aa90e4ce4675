/*
File: singleflight.go
Version: 1.0.0
Description: Sharded wrapper around singleflight.Group so concurrent analyses
             of the same domain share one set of collector lookups without
             contending on a single group mutex.
*/

package main

import (
	"hash/maphash"
	"sync"

	"golang.org/x/sync/singleflight"
)

const flightShardCount = 128

type FlightGroup struct {
	shards []*singleflight.Group
	seed   maphash.Seed
}

var flightHashPool = sync.Pool{
	New: func() any {
		return new(maphash.Hash)
	},
}

func NewFlightGroup() *FlightGroup {
	fg := &FlightGroup{
		shards: make([]*singleflight.Group, flightShardCount),
		seed:   maphash.MakeSeed(),
	}
	for i := 0; i < flightShardCount; i++ {
		fg.shards[i] = &singleflight.Group{}
	}
	return fg
}

func (g *FlightGroup) getShard(key string) *singleflight.Group {
	h := flightHashPool.Get().(*maphash.Hash)

	// Reset before SetSeed, reusing a seeded hasher panics otherwise.
	h.Reset()
	h.SetSeed(g.seed)
	h.WriteString(key)

	idx := h.Sum64() & (flightShardCount - 1)
	flightHashPool.Put(h)

	return g.shards[idx]
}

func (g *FlightGroup) Do(key string, fn func() (interface{}, error)) (interface{}, error, bool) {
	return g.getShard(key).Do(key, fn)
}

func (g *FlightGroup) Forget(key string) {
	g.getShard(key).Forget(key)
}
