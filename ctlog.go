/*
File: ctlog.go
Version: 1.1.0
Description: Certificate-transparency collector against a crt.sh style JSON
             endpoint. Derives issuance volume and naming signals, all-zero on
             any failure.
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const recentCertWindow = 30 * 24 * time.Hour

type ctLogEntry struct {
	NameValue string `json:"name_value"`
	NotBefore string `json:"not_before"`
}

// CTClient queries a certificate-transparency aggregation endpoint. BaseURL
// and Client are exported for test injection.
type CTClient struct {
	BaseURL string
	Client  *http.Client

	limiter *OutboundLimiter
	cache   *ShardedCache[CTFeatures]
}

func NewCTClient(baseURL string, timeout time.Duration, limiter *OutboundLimiter, cacheSize int) *CTClient {
	return &CTClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		cache:   NewShardedCache[CTFeatures](cacheSize),
	}
}

// Lookup derives CT features for a registrable domain. Never returns an
// error, failures are logged and yield all-zero features.
func (cc *CTClient) Lookup(ctx context.Context, domain string) CTFeatures {
	if domain == "" {
		return CTFeatures{}
	}

	if cached, ok := cc.cache.Get(domain); ok {
		return cached
	}

	features := cc.fetch(ctx, domain)
	cc.cache.Add(domain, features)
	return features
}

func (cc *CTClient) fetch(ctx context.Context, domain string) CTFeatures {
	endpoint := fmt.Sprintf("%s/?q=%s&output=json", cc.BaseURL, url.QueryEscape(domain))

	parsed, err := url.Parse(cc.BaseURL)
	if err != nil {
		LogWarn("[CT] bad base URL %s: %v", cc.BaseURL, err)
		return CTFeatures{}
	}
	if cc.limiter != nil && !cc.limiter.Wait(ctx, parsed.Host) {
		LogDebug("[CT] lookup for %s skipped by rate limiter", domain)
		return CTFeatures{}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CTFeatures{}
	}

	resp, err := cc.Client.Do(req)
	if err != nil {
		LogDebug("[CT] lookup for %s failed: %v", domain, err)
		return CTFeatures{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		LogDebug("[CT] lookup for %s returned HTTP %d", domain, resp.StatusCode)
		return CTFeatures{}
	}

	var entries []ctLogEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		LogDebug("[CT] decoding response for %s failed: %v", domain, err)
		return CTFeatures{}
	}

	features := CTFeatures{CertCount: float64(len(entries))}
	cutoff := time.Now().Add(-recentCertWindow)

	for _, entry := range entries {
		if t, ok := parseCTTimestamp(entry.NotBefore); ok && t.After(cutoff) {
			features.RecentCertCount++
		}
		if features.SuspiciousCertPattern == 0 {
			names := strings.ToLower(entry.NameValue)
			for _, term := range ctSuspiciousNameTerms {
				if strings.Contains(names, term) {
					features.SuspiciousCertPattern = 1
					break
				}
			}
		}
	}
	return features
}

func parseCTTimestamp(value string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
