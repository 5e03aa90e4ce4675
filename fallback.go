/*
File: fallback.go
Version: 1.2.0
Description: Rule-based scorer used when the classifier is unavailable or
             errors. Fixed point values per heuristic, clamped to [0,100],
             with an explanation record for every point source.
*/

package main

import (
	"fmt"
	"regexp"
	"strings"
)

// fallbackSuspiciousTLDs is the scorer's own binary TLD list, narrower than
// the graded tables used by the feature extractor.
var fallbackSuspiciousTLDs = map[string]struct{}{
	"tk": {}, "ml": {}, "ga": {}, "cf": {}, "gq": {},
	"top": {}, "xyz": {}, "online": {}, "site": {},
}

// fallbackKeywords are scored 5 points each, capped at 30 total.
var fallbackKeywords = []string{
	"login", "signin", "verify", "secure", "account", "update", "confirm",
	"password", "credential", "wallet", "authenticate", "verification",
}

var ipv4DomainRe = regexp.MustCompile(`^\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}$`)

var fallbackShorteners = []string{"bit.ly", "tinyurl.com", "goo.gl", "t.co", "is.gd"}

// FallbackScore computes the heuristic risk score. Patterns, domain info and
// the HTML scan come from the pipeline so no lookup is repeated here.
func FallbackScore(p ParsedURL, trusted bool, patterns []SuspiciousPattern, info DomainInfo, html HTMLSecurity) (float64, []RiskFactor) {
	score := 0.0
	factors := []RiskFactor{}

	add := func(points float64, name, description, impact string) {
		score += points
		factors = append(factors, RiskFactor{
			Name:         name,
			Description:  description,
			Impact:       impact,
			Contribution: points,
		})
	}

	domain := strings.ToLower(p.Host)
	lower := strings.ToLower(p.Raw)

	if p.Scheme != "https" {
		add(20, "insecure_protocol", "The site uses HTTP instead of HTTPS", "high")
	}

	if ipv4DomainRe.MatchString(domain) {
		add(25, "ip_as_domain", "IP address used as domain instead of a domain name", "high")
	}

	if tld := ExtractTLD(domain); tld != "" {
		if _, ok := fallbackSuspiciousTLDs[tld]; ok {
			add(15, "suspicious_tld", fmt.Sprintf("Domain uses suspicious TLD (.%s)", tld), "medium")
		}
	}

	if len(domain) > 30 {
		add(10, "long_domain", "Unusually long domain name", "medium")
	}

	if strings.Count(domain, ".") > 3 {
		add(15, "excessive_subdomains", fmt.Sprintf("Domain has %d subdomains", strings.Count(domain, ".")), "medium")
	}

	if len(p.Raw) > 100 {
		add(10, "long_url", "Excessively long URL", "medium")
	}

	keywordCount := 0
	for _, word := range fallbackKeywords {
		if strings.Contains(lower, word) {
			keywordCount++
		}
	}
	if keywordCount > 0 {
		points := float64(keywordCount * 5)
		if points > 30 {
			points = 30
		}
		add(points, "suspicious_keywords",
			fmt.Sprintf("URL contains %d suspicious keywords", keywordCount), "medium")
	}

	specialCount := 0
	for i := 0; i < len(p.Raw); i++ {
		if strings.IndexByte(specialChars, p.Raw[i]) >= 0 {
			specialCount++
		}
	}
	if specialCount > 0 {
		points := float64(specialCount)
		if points > 15 {
			points = 15
		}
		impact := "low"
		if specialCount >= 10 {
			impact = "medium"
		}
		score += points
		if specialCount > 5 {
			factors = append(factors, RiskFactor{
				Name:         "special_chars",
				Description:  fmt.Sprintf("URL contains %d special characters", specialCount),
				Impact:       impact,
				Contribution: points,
			})
		}
	}

	if _, ok := matchesDomainList(domain, fallbackShorteners); ok {
		add(15, "url_shortener", "Uses URL shortening service", "medium")
	}

	if trusted {
		reduced := score - 40
		if reduced < 0 {
			reduced = 0
		}
		factors = append(factors, RiskFactor{
			Name:         "trusted_domain",
			Description:  "Domain is in trusted list",
			Impact:       "positive",
			Contribution: reduced - score,
		})
		score = reduced
	}

	patternRisk := 0.0
	for _, pat := range patterns {
		patternRisk += pat.RiskScore
	}
	if patternRisk > 0 {
		impact := "medium"
		if patternRisk > 20 {
			impact = "high"
		}
		add(patternRisk, "suspicious_patterns",
			fmt.Sprintf("Found %d suspicious patterns", len(patterns)), impact)
	}

	if !info.Resolved() {
		add(10, "unresolvable_domain", "Domain could not be resolved to an IP address", "high")
	} else if _, ok := highRiskCountries[info.CountryCode]; ok {
		add(5, "high_risk_country",
			fmt.Sprintf("Domain hosted in high-risk country (%s)", info.Country), "medium")
	}

	if htmlRisk := html.ContentScore / 5; htmlRisk > 0 {
		impact := "medium"
		if htmlRisk > 10 {
			impact = "high"
		}
		add(htmlRisk, "html_content", "HTML content has suspicious elements", impact)
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, factors
}
