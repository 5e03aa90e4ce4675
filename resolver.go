/*
File: resolver.go
Version: 1.2.0
Description: DNS collector. Resolves the analyzed host to an IPv4 address via
             a configurable upstream, retrying over TCP on truncation, with
             the system resolver as fallback. Never returns an error to the
             pipeline, failures yield the "Could not resolve" sentinel.
*/

package main

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"
)

// Resolver caches resolution results per host for the process lifetime.
type Resolver struct {
	Upstream string
	Timeout  time.Duration

	cache  *ShardedCache[string]
	client *dns.Client
}

func NewResolver(upstream string, timeout time.Duration, cacheSize int) *Resolver {
	return &Resolver{
		Upstream: upstream,
		Timeout:  timeout,
		cache:    NewShardedCache[string](cacheSize),
		client: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
	}
}

// Resolve returns the first IPv4 address for host, or the CouldNotResolve
// sentinel. IP literals pass through unchanged.
func (r *Resolver) Resolve(ctx context.Context, host string) string {
	if ip := net.ParseIP(host); ip != nil {
		return host
	}

	if cached, ok := r.cache.Get(host); ok {
		return cached
	}

	result := r.resolveUpstream(ctx, host)
	if result == "" {
		result = r.resolveSystem(ctx, host)
	}
	if result == "" {
		LogDebug("[DNS] %s did not resolve", host)
		result = CouldNotResolve
	}

	r.cache.Add(host, result)
	return result
}

func (r *Resolver) resolveUpstream(ctx context.Context, host string) string {
	if r.Upstream == "" {
		return ""
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), dns.TypeA)
	msg.RecursionDesired = true

	resp, _, err := r.client.ExchangeContext(ctx, msg, r.Upstream)
	if err == nil && resp != nil && resp.Truncated {
		tcpClient := &dns.Client{Net: "tcp", Timeout: r.Timeout}
		resp, _, err = tcpClient.ExchangeContext(ctx, msg, r.Upstream)
	}
	if err != nil || resp == nil || resp.Rcode != dns.RcodeSuccess {
		if err != nil {
			LogDebug("[DNS] upstream query for %s failed: %v", host, err)
		}
		return ""
	}

	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String()
		}
	}
	return ""
}

func (r *Resolver) resolveSystem(ctx context.Context, host string) string {
	resolver := &net.Resolver{}
	lookupCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	addrs, err := resolver.LookupIP(lookupCtx, "ip4", host)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	return addrs[0].String()
}
