/*
File: urlutil.go
Version: 1.1.0
Description: URL normalization and decomposition helpers shared by the
             extractor, the pattern matcher and the collectors.
*/

package main

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// ParsedURL carries the decomposed pieces of a normalized URL so each
// pipeline stage does not re-parse the raw string.
type ParsedURL struct {
	Raw      string
	Scheme   string
	Host     string // hostname without port
	Port     string
	Path     string
	Query    string
	Fragment string
	IsIP     bool
}

// NormalizeURL prefixes a scheme when the input has none. Bare hostnames are
// treated as plain HTTP, which also makes the missing-TLS signals fire.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		return "http://" + raw
	}
	return raw
}

// ParseURL normalizes and decomposes a URL. The error is only returned for
// inputs the stdlib parser rejects outright.
func ParseURL(raw string) (ParsedURL, error) {
	normalized := NormalizeURL(raw)
	u, err := url.Parse(normalized)
	if err != nil {
		return ParsedURL{}, err
	}
	host := u.Hostname()
	return ParsedURL{
		Raw:      normalized,
		Scheme:   u.Scheme,
		Host:     host,
		Port:     u.Port(),
		Path:     u.Path,
		Query:    u.RawQuery,
		Fragment: u.Fragment,
		IsIP:     net.ParseIP(host) != nil,
	}, nil
}

// StripWWW removes a single leading "www." label.
func StripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// RegistrableDomain returns the eTLD+1 for a host, or the host itself when the
// public suffix list cannot produce one (IP literals, single labels).
func RegistrableDomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if net.ParseIP(host) != nil {
		return host
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return base
}

// ExtractTLD returns the final label of a host, lowercased, empty for IP
// literals and single labels.
func ExtractTLD(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if net.ParseIP(host) != nil {
		return ""
	}
	idx := strings.LastIndexByte(host, '.')
	if idx < 0 {
		return ""
	}
	return host[idx+1:]
}

// DomainWithoutTLD strips the final label, used by the linguistic features so
// the TLD does not skew letter statistics.
func DomainWithoutTLD(host string) string {
	tld := ExtractTLD(host)
	if tld == "" {
		return host
	}
	return strings.TrimSuffix(host, "."+tld)
}

// SubdomainCount counts labels in front of the registrable domain.
func SubdomainCount(host string) int {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	base := RegistrableDomain(host)
	if host == base {
		return 0
	}
	prefix := strings.TrimSuffix(host, "."+base)
	if prefix == host {
		return 0
	}
	return strings.Count(prefix, ".") + 1
}

// containsFold is a case-insensitive substring check.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// matchesDomainList reports whether host equals an entry or is a subdomain of
// one, after www-stripping.
func matchesDomainList(host string, list []string) (string, bool) {
	host = StripWWW(strings.ToLower(host))
	for _, entry := range list {
		if host == entry || strings.HasSuffix(host, "."+entry) {
			return entry, true
		}
	}
	return "", false
}
