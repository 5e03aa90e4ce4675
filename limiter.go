/*
File: limiter.go
Version: 1.1.0
Description: Outbound rate limiting for the third-party lookup APIs. One token
             bucket per upstream host in a sharded map, waits are bounded so a
             throttled collector degrades to its sentinel result instead of
             stalling an analysis.
*/

package main

import (
	"context"
	"hash/maphash"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const limiterShardCount = 32

type limiterShard struct {
	sync.Mutex
	hosts map[string]*rate.Limiter
}

// OutboundLimiter paces requests to external lookup services per upstream
// host so a burst of analyses does not get the service IP banned.
type OutboundLimiter struct {
	shards   [limiterShardCount]*limiterShard
	seed     maphash.Seed
	qps      rate.Limit
	burst    int
	maxDelay time.Duration
	enabled  bool
}

func NewOutboundLimiter(cfg RateLimitConfig) *OutboundLimiter {
	ol := &OutboundLimiter{
		seed:     maphash.MakeSeed(),
		qps:      rate.Limit(cfg.HostQPS),
		burst:    cfg.Burst,
		maxDelay: cfg.parsedMaxDelay,
		enabled:  cfg.Enabled,
	}
	for i := 0; i < limiterShardCount; i++ {
		ol.shards[i] = &limiterShard{hosts: make(map[string]*rate.Limiter)}
	}
	return ol
}

func (ol *OutboundLimiter) getLimiter(host string) *rate.Limiter {
	var h maphash.Hash
	h.SetSeed(ol.seed)
	h.WriteString(host)
	shard := ol.shards[h.Sum64()&(limiterShardCount-1)]

	shard.Lock()
	defer shard.Unlock()
	lim, ok := shard.hosts[host]
	if !ok {
		lim = rate.NewLimiter(ol.qps, ol.burst)
		shard.hosts[host] = lim
	}
	return lim
}

// Wait blocks until a request to host may proceed. Returns false when the
// required delay exceeds the configured maximum or the context expires; the
// caller should skip the request and fall back to its zero result.
func (ol *OutboundLimiter) Wait(ctx context.Context, host string) bool {
	if !ol.enabled {
		return true
	}

	lim := ol.getLimiter(host)
	reservation := lim.Reserve()
	if !reservation.OK() {
		return false
	}

	delay := reservation.Delay()
	if delay == 0 {
		return true
	}
	if delay > ol.maxDelay {
		reservation.Cancel()
		LogDebug("[LIMITER] Skipping call to %s, required delay %v exceeds %v", host, delay, ol.maxDelay)
		return false
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		reservation.Cancel()
		return false
	}
}
