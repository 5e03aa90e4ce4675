/*
File: assembler.go
Version: 1.1.0
Description: Merges the lexical and collector feature groups into one named
             feature map with deterministic ordering, and flattens it to the
             fixed-width numeric vector the classifier expects.
*/

package main

import (
	"sort"
)

// vectorWidth is the classifier's input dimensionality. The assembled vector
// is zero-padded or truncated to exactly this length.
const vectorWidth = 96

// FeatureSet is an ordered named feature map. Basic lexical features keep
// their declaration order at the front, every other group follows sorted by
// key, so the same URL always produces the same vector.
type FeatureSet struct {
	Keys   []string
	Values map[string]float64
}

// Get returns a feature value, zero when absent.
func (fs *FeatureSet) Get(name string) float64 {
	return fs.Values[name]
}

// Has reports whether the feature was assembled.
func (fs *FeatureSet) Has(name string) bool {
	_, ok := fs.Values[name]
	return ok
}

// AssembleFeatures merges the groups. The basic map must contain exactly the
// basicFeatureOrder keys; group maps carry their own namespace prefixes.
func AssembleFeatures(basic map[string]float64, groups ...map[string]float64) *FeatureSet {
	fs := &FeatureSet{
		Keys:   make([]string, 0, len(basic)+len(groups)*8),
		Values: make(map[string]float64, len(basic)+len(groups)*8),
	}

	for _, key := range basicFeatureOrder {
		fs.Keys = append(fs.Keys, key)
		fs.Values[key] = basic[key]
	}

	var rest []string
	for _, group := range groups {
		for key, value := range group {
			if _, exists := fs.Values[key]; exists {
				continue
			}
			fs.Values[key] = value
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	fs.Keys = append(fs.Keys, rest...)

	return fs
}

// Vector flattens the feature set to the classifier width.
func (fs *FeatureSet) Vector() []float64 {
	vec := make([]float64, vectorWidth)
	for i, key := range fs.Keys {
		if i >= vectorWidth {
			break
		}
		vec[i] = fs.Values[key]
	}
	return vec
}

// WhoisFeatureMap namespaces the WHOIS features for assembly.
func WhoisFeatureMap(w WhoisFeatures) map[string]float64 {
	return map[string]float64{
		"whois_domain_age_days":      w.DomainAgeDays,
		"whois_expiration_days":      w.ExpirationDays,
		"whois_recently_registered":  w.RecentlyRegistered,
		"whois_privacy_protected":    w.PrivacyProtected,
		"whois_suspicious_registrar": w.SuspiciousRegistrar,
	}
}

// CTFeatureMap namespaces the certificate-transparency features.
func CTFeatureMap(c CTFeatures) map[string]float64 {
	return map[string]float64{
		"ct_cert_count":              c.CertCount,
		"ct_recent_cert_count":       c.RecentCertCount,
		"ct_suspicious_cert_pattern": c.SuspiciousCertPattern,
	}
}

// ContentFeatureMap namespaces the page content features.
func ContentFeatureMap(c ContentFeatures) map[string]float64 {
	return map[string]float64{
		"content_page_size_bytes":          c.PageSizeBytes,
		"content_external_resources_count": c.ExternalResourcesCount,
		"content_form_count":               c.FormCount,
		"content_password_field_count":     c.PasswordFieldCount,
		"content_js_to_html_ratio":         c.JSToHTMLRatio,
		"content_title_brand_mismatch":     c.TitleBrandMismatch,
		"content_favicon_exists":           c.FaviconExists,
		"content_similar_domain_redirect":  c.SimilarDomainRedirect,
	}
}

// HTMLFeatureMap namespaces the security scan summary.
func HTMLFeatureMap(h HTMLSecurity) map[string]float64 {
	hasPassword := 0.0
	hasObfuscated := 0.0
	for _, factor := range h.RiskFactors {
		if containsFold(factor, "password") {
			hasPassword = 1
		}
		if containsFold(factor, "obfuscated") {
			hasObfuscated = 1
		}
	}
	return map[string]float64{
		"html_security_score":     h.ContentScore,
		"html_risk_factor_count":  float64(len(h.RiskFactors)),
		"html_has_password_field": hasPassword,
		"html_has_obfuscated_js":  hasObfuscated,
	}
}

// GeoFeatureMap namespaces the geolocation features.
func GeoFeatureMap(g GeoInfo) map[string]float64 {
	suspicious := 0.0
	if _, ok := highRiskCountries[g.CountryCode]; ok {
		suspicious = 1
	}
	return map[string]float64{
		"geo_suspicious_country": suspicious,
	}
}
