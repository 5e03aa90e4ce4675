/*
File: cache.go
Version: 1.1.0
Description: Thread-safe sharded LRU cache, generic over the value type.
             Instantiated for trust verdicts, domain categories, resolved
             addresses, geolocation results and CT lookups.
*/

package main

import (
	"container/list"
	"hash/maphash"
	"sync"
)

const cacheShards = 64

type cacheEntry[V any] struct {
	key   string
	value V
}

type cacheShard[V any] struct {
	sync.RWMutex
	items    map[string]*list.Element
	lruList  *list.List
	capacity int
}

// ShardedCache is a fixed-capacity LRU cache split across 64 shards keyed by
// maphash, so hot lookups do not contend on one lock.
type ShardedCache[V any] struct {
	shards [cacheShards]*cacheShard[V]
	seed   maphash.Seed
}

func NewShardedCache[V any](capacity int) *ShardedCache[V] {
	c := &ShardedCache[V]{
		seed: maphash.MakeSeed(),
	}
	shardCap := capacity / cacheShards
	if shardCap < 1 {
		shardCap = 1
	}

	for i := 0; i < cacheShards; i++ {
		c.shards[i] = &cacheShard[V]{
			items:    make(map[string]*list.Element),
			lruList:  list.New(),
			capacity: shardCap,
		}
	}
	return c
}

func (c *ShardedCache[V]) getShard(key string) *cacheShard[V] {
	var h maphash.Hash
	h.SetSeed(c.seed)
	h.WriteString(key)
	return c.shards[h.Sum64()&(cacheShards-1)]
}

func (c *ShardedCache[V]) Get(key string) (V, bool) {
	shard := c.getShard(key)
	shard.RLock()
	_, found := shard.items[key]
	shard.RUnlock()

	if found {
		shard.Lock()
		if el, ok := shard.items[key]; ok {
			shard.lruList.MoveToFront(el)
			shard.Unlock()
			return el.Value.(*cacheEntry[V]).value, true
		}
		shard.Unlock()
	}
	var zero V
	return zero, false
}

func (c *ShardedCache[V]) Add(key string, value V) {
	shard := c.getShard(key)
	shard.Lock()
	defer shard.Unlock()

	if elem, found := shard.items[key]; found {
		shard.lruList.MoveToFront(elem)
		elem.Value.(*cacheEntry[V]).value = value
		return
	}

	if shard.lruList.Len() >= shard.capacity {
		if oldest := shard.lruList.Back(); oldest != nil {
			shard.lruList.Remove(oldest)
			delete(shard.items, oldest.Value.(*cacheEntry[V]).key)
		}
	}

	entry := &cacheEntry[V]{key: key, value: value}
	elem := shard.lruList.PushFront(entry)
	shard.items[key] = elem
}

func (c *ShardedCache[V]) Flush() {
	for _, shard := range c.shards {
		shard.Lock()
		shard.items = make(map[string]*list.Element)
		shard.lruList.Init()
		shard.Unlock()
	}
}

// Len reports the total number of cached entries across all shards.
func (c *ShardedCache[V]) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.RLock()
		total += shard.lruList.Len()
		shard.RUnlock()
	}
	return total
}
