/*
File: trusted.go
Version: 1.2.0
Description: Trusted-domain verdicts, domain category classification and the
             popularity heuristic. Verdicts are cached for the process
             lifetime, trust status of a registrable domain does not change
             mid-run.
*/

package main

import (
	"strings"
)

// TrustChecker owns the trust and category caches. The trust verdict itself is
// a curated list check; the popularity heuristic is advisory metadata only and
// never promotes an unlisted domain to trusted.
type TrustChecker struct {
	trustCache    *ShardedCache[bool]
	categoryCache *ShardedCache[string]
}

func NewTrustChecker(cacheSize int) *TrustChecker {
	return &TrustChecker{
		trustCache:    NewShardedCache[bool](cacheSize),
		categoryCache: NewShardedCache[string](cacheSize),
	}
}

// IsTrustedDomain reports whether the host belongs to a curated trusted
// domain, by exact match or as a subdomain, after www-stripping.
func (tc *TrustChecker) IsTrustedDomain(host string) bool {
	host = StripWWW(strings.ToLower(host))

	if verdict, ok := tc.trustCache.Get(host); ok {
		return verdict
	}

	trusted := false
	if _, ok := trustedDomains[host]; ok {
		trusted = true
	} else {
		for td := range trustedDomains {
			if strings.HasSuffix(host, "."+td) {
				trusted = true
				break
			}
		}
	}

	tc.trustCache.Add(host, trusted)
	return trusted
}

// DomainCategory returns the display category for a host: the curated mapping
// when listed, otherwise a keyword-based guess over the registrable name,
// defaulting to "general".
func (tc *TrustChecker) DomainCategory(host string) string {
	base := RegistrableDomain(StripWWW(strings.ToLower(host)))

	if cat, ok := tc.categoryCache.Get(base); ok {
		return cat
	}

	category := "general"
	if cat, ok := domainCategories[base]; ok {
		category = cat
	} else {
		name := DomainWithoutTLD(base)
		bestScore := 0
		for cat, keywords := range categoryKeywords {
			matches := 0
			for _, kw := range keywords {
				if strings.Contains(name, kw) {
					matches++
				}
			}
			// Ties resolve alphabetically so the result is deterministic
			// despite map iteration order.
			if matches > bestScore || (matches == bestScore && matches > 0 && cat < category) {
				bestScore = matches
				category = cat
			}
		}
	}

	tc.categoryCache.Add(base, category)
	return category
}

// PopularityScore estimates how likely a domain name is to belong to an
// established site, on a 0..9 scale. Short readable lowercase names on
// mainstream TLDs score high, random-looking names score low.
func PopularityScore(host string) float64 {
	base := RegistrableDomain(StripWWW(strings.ToLower(host)))
	name := DomainWithoutTLD(base)
	tld := ExtractTLD(base)

	score := 0.0

	switch l := len(name); {
	case l >= 3 && l <= 12:
		score += 1
	case l >= 13 && l <= 20:
		score += 0.5
	}

	switch e := calculateEntropy(name); {
	case e < 2.8:
		score += 1
	case e < 3.2:
		score += 0.5
	}

	if _, ok := trustedTLDs[tld]; ok || tld == "com" {
		score += 2
	} else if tld == "org" || tld == "net" || tld == "io" || tld == "co" {
		score += 1
	}

	hasDigit := false
	hasHyphen := false
	clean := true
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= '0' && c <= '9' {
			hasDigit = true
		}
		if c == '-' {
			hasHyphen = true
		}
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') && c != '-' {
			clean = false
		}
	}
	if !hasDigit {
		score += 1
	}
	if !hasHyphen {
		score += 1
	}
	if clean {
		score += 1
	}

	// Alphabetic run of 3+ suggests a pronounceable word.
	run := 0
	for i := 0; i < len(name); i++ {
		if name[i] >= 'a' && name[i] <= 'z' {
			run++
			if run >= 3 {
				score += 1
				break
			}
		} else {
			run = 0
		}
	}

	return score
}
