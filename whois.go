/*
File: whois.go
Version: 1.2.0
Description: WHOIS collector. Raw port-43 protocol client with one referral
             hop, tolerant date parsing across registry formats, and feature
             derivation (domain age, expiry, registrar and privacy flags).
             Failures yield the all-zero feature set.
*/

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const (
	whoisMaxResponse = 1 << 20
	recentDays       = 60
)

// whoisDateLayouts cover the formats registries actually emit.
var whoisDateLayouts = []string{
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05.0Z",
	"2006-01-02T15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02.01.2006",
	"January 2 2006",
}

// WhoisClient performs registration-data lookups. Server is the IANA root by
// default; referrals in the response are followed one hop.
type WhoisClient struct {
	Server  string
	Timeout time.Duration

	// DialFunc is replaceable in tests.
	DialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

	cache *ShardedCache[WhoisFeatures]
}

func NewWhoisClient(server string, timeout time.Duration, cacheSize int) *WhoisClient {
	dialer := &net.Dialer{}
	return &WhoisClient{
		Server:   server,
		Timeout:  timeout,
		DialFunc: dialer.DialContext,
		cache:    NewShardedCache[WhoisFeatures](cacheSize),
	}
}

// Lookup derives registration features for a registrable domain. Never
// returns an error, failures are logged and yield all-zero features.
func (wc *WhoisClient) Lookup(ctx context.Context, domain string) WhoisFeatures {
	if domain == "" || net.ParseIP(domain) != nil {
		return WhoisFeatures{}
	}

	if cached, ok := wc.cache.Get(domain); ok {
		return cached
	}

	raw, err := wc.query(ctx, wc.Server, domain)
	if err != nil {
		LogDebug("[WHOIS] query for %s failed: %v", domain, err)
		wc.cache.Add(domain, WhoisFeatures{})
		return WhoisFeatures{}
	}

	// Follow one referral hop when the root answer points elsewhere.
	if referral := parseWhoisField(raw, "refer", "whois server", "registrar whois server"); referral != "" {
		referral = strings.TrimSpace(referral)
		if !strings.Contains(referral, ":") {
			referral += ":43"
		}
		if deeper, err := wc.query(ctx, referral, domain); err == nil && deeper != "" {
			raw = deeper
		}
	}

	features := parseWhoisFeatures(raw)
	wc.cache.Add(domain, features)
	return features
}

func (wc *WhoisClient) query(ctx context.Context, server, domain string) (string, error) {
	dialCtx, cancel := context.WithTimeout(ctx, wc.Timeout)
	defer cancel()

	conn, err := wc.DialFunc(dialCtx, "tcp", server)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", server, err)
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(wc.Timeout))

	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", fmt.Errorf("write query: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(conn, whoisMaxResponse))
	if err != nil && len(data) == 0 {
		return "", fmt.Errorf("read response: %w", err)
	}
	return string(data), nil
}

// parseWhoisField scans for the first "key: value" line matching any of the
// given keys, case-insensitively.
func parseWhoisField(raw string, keys ...string) string {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		for _, want := range keys {
			if key == want {
				return strings.TrimSpace(line[idx+1:])
			}
		}
	}
	return ""
}

func parseWhoisDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	// Some registries append a comment after the date.
	if idx := strings.IndexByte(value, ' '); idx > 0 && strings.Contains(value[:idx], "-") {
		if t, ok := tryWhoisLayouts(value[:idx]); ok {
			return t, true
		}
	}
	return tryWhoisLayouts(value)
}

func tryWhoisLayouts(value string) (time.Time, bool) {
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseWhoisFeatures(raw string) WhoisFeatures {
	features := WhoisFeatures{}
	now := time.Now()

	created := parseWhoisField(raw,
		"creation date", "created", "registered on", "registration time", "domain registration date")
	if t, ok := parseWhoisDate(created); ok {
		age := now.Sub(t).Hours() / 24
		if age < 0 {
			age = 0
		}
		features.DomainAgeDays = age
		if age < recentDays {
			features.RecentlyRegistered = 1
		}
	}

	expires := parseWhoisField(raw,
		"registry expiry date", "expiration date", "expires", "expiry date", "paid-till")
	if t, ok := parseWhoisDate(expires); ok {
		remaining := t.Sub(now).Hours() / 24
		if remaining < 0 {
			remaining = 0
		}
		features.ExpirationDays = remaining
	}

	lower := strings.ToLower(raw)
	if strings.Contains(lower, "privacy") || strings.Contains(lower, "redacted") ||
		strings.Contains(lower, "whoisguard") || strings.Contains(lower, "data protected") {
		features.PrivacyProtected = 1
	}

	registrar := strings.ToLower(parseWhoisField(raw, "registrar"))
	for _, r := range suspiciousRegistrars {
		if strings.Contains(registrar, r) {
			features.SuspiciousRegistrar = 1
			break
		}
	}

	return features
}
