/*
File: patterns.go
Version: 1.2.0
Description: Fixed catalog of suspicious URL signatures. Detection order is
             stable so result lists are reproducible, and the DNS resolution
             check only fires when no other signature matched.
*/

package main

import (
	"fmt"
	"strings"
)

const (
	severityLow    = "low"
	severityMedium = "medium"
	severityHigh   = "high"
)

// subdomainPart returns the labels in front of the registrable domain, or ""
// when there are none.
func subdomainPart(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	base := RegistrableDomain(host)
	if host == base {
		return ""
	}
	prefix := strings.TrimSuffix(host, "."+base)
	if prefix == host {
		return ""
	}
	return prefix
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// DetectPatterns runs the signature catalog against a parsed URL. The resolved
// flag comes from the DNS collector so the last-resort check reuses the
// lookup already performed.
func DetectPatterns(p ParsedURL, resolved bool) []SuspiciousPattern {
	patterns := []SuspiciousPattern{}
	lower := strings.ToLower(p.Raw)
	host := strings.ToLower(p.Host)

	if p.Scheme == "http" {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "Insecure HTTP",
			Severity:    severityHigh,
			Explanation: "Connection is not encrypted, credentials and form data can be intercepted",
			RiskScore:   15,
		})
	}

	if tld := ExtractTLD(host); tld != "" {
		if _, ok := patternSuspiciousTLDs[tld]; ok {
			patterns = append(patterns, SuspiciousPattern{
				Pattern:     "Suspicious TLD",
				Severity:    severityMedium,
				Explanation: fmt.Sprintf("The .%s top-level domain is frequently used in phishing campaigns", tld),
				RiskScore:   10,
			})
		}
	}

	if sub := subdomainPart(host); sub != "" {
		firstLabel := sub
		if idx := strings.IndexByte(sub, '.'); idx >= 0 {
			firstLabel = sub[:idx]
		}
		if isAllDigits(firstLabel) {
			patterns = append(patterns, SuspiciousPattern{
				Pattern:     "Numeric subdomain",
				Severity:    severityMedium,
				Explanation: "Purely numeric subdomains are typical of automatically generated hosts",
				RiskScore:   10,
			})
		} else if len(sub) > 20 {
			patterns = append(patterns, SuspiciousPattern{
				Pattern:     "Unusually long subdomain",
				Severity:    severityMedium,
				Explanation: "Very long subdomains are often used to bury a fake brand name",
				RiskScore:   5,
			})
		}
	}

	if shortener, ok := matchesDomainList(host, urlShorteners); ok {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "URL shortener",
			Severity:    severityMedium,
			Explanation: fmt.Sprintf("Shortener %s hides the real destination of the link", shortener),
			RiskScore:   8,
		})
	}

	keywordHits := 0
	for _, kw := range patternKeywords {
		if strings.Contains(lower, kw) {
			keywordHits++
		}
	}
	if keywordHits > 0 {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "Suspicious keywords",
			Severity:    severityMedium,
			Explanation: "URL contains wording commonly used to imitate login or account pages",
			RiskScore:   12,
		})
	}

	if p.IsIP {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "IP address as domain",
			Severity:    severityHigh,
			Explanation: "Legitimate services use domain names, raw IP hosts evade domain reputation",
			RiskScore:   25,
		})
	}

	if strings.Count(host, ".") > 3 {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "Excessive subdomains",
			Severity:    severityMedium,
			Explanation: "Deeply nested subdomains are used to spoof legitimate hostnames",
			RiskScore:   8,
		})
	}

	if len(p.Raw) > 100 {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "Unusually long URL",
			Severity:    severityMedium,
			Explanation: "Very long URLs are used to obscure the true destination",
			RiskScore:   5,
		})
	}

	if strings.Contains(p.Raw, "@") {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "@ symbol in URL",
			Severity:    severityHigh,
			Explanation: "Everything before @ is ignored by browsers, a classic redirection trick",
			RiskScore:   20,
		})
	}

	special := 0
	for i := 0; i < len(p.Raw); i++ {
		if strings.IndexByte(specialChars, p.Raw[i]) >= 0 {
			special++
		}
	}
	if special > 15 {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "Excessive special characters",
			Severity:    severityMedium,
			Explanation: "High density of special characters suggests obfuscation",
			RiskScore:   10,
		})
	}

	// Last resort: a URL that trips no lexical signature but does not resolve
	// is still suspect. Skipped when anything above already matched.
	if len(patterns) == 0 && !resolved && !p.IsIP {
		patterns = append(patterns, SuspiciousPattern{
			Pattern:     "Domain does not resolve",
			Severity:    severityHigh,
			Explanation: "The domain has no DNS address, the site cannot be legitimate infrastructure",
			RiskScore:   20,
		})
	}

	return patterns
}
