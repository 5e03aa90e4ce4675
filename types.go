/*
File: types.go
Version: 1.2.0
Description: Shared result types for the URL risk analysis pipeline.
             All results are structurally complete: missing data is represented
             by typed sentinels ("Unknown", 0, empty list), never by absent fields.
*/

package main

import "time"

// Sentinel values used across collectors.
const (
	UnknownValue    = "Unknown"
	CouldNotResolve = "Could not resolve"
	statusSuccess   = "success"
	statusError     = "error"
)

// Attribution sections. Every feature contribution lands in exactly one.
const (
	SectionKeyRisk    = "Key Risk Factors"
	SectionDomainInfo = "Domain Information"
	SectionPatterns   = "Suspicious Patterns"
)

// Risk levels, mapped from the 0-100 score.
const (
	RiskLow      = "low"
	RiskModerate = "moderate"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// SuspiciousPattern is one entry of the fixed signature catalog that matched
// the analyzed URL. RiskScore is a fixed per-pattern value.
type SuspiciousPattern struct {
	Pattern     string  `json:"pattern"`
	Severity    string  `json:"severity"`
	Explanation string  `json:"explanation"`
	RiskScore   float64 `json:"risk_score"`
}

// FeatureContribution attributes a slice of the final score to a named feature.
// The Percentage values of all contributions sum to the final score.
type FeatureContribution struct {
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Direction  string  `json:"direction"`
	Section    string  `json:"section"`
}

// RiskFactor is an explanation record attached by the rule-based scorer or by
// pipeline-level penalties (e.g. unresolvable domain).
type RiskFactor struct {
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Impact       string  `json:"impact"`
	Contribution float64 `json:"contribution"`
}

// GeoInfo is the geolocation collector result. On failure every string field
// is "Unknown" and the coordinates fall back to a fixed default pair so that
// downstream math stays well-defined.
type GeoInfo struct {
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Region      string  `json:"region"`
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Org         string  `json:"org"`
	Timezone    string  `json:"timezone"`
	ASN         string  `json:"as"`
}

// DomainInfo aggregates DNS and geolocation data for a domain. Built once per
// analysis and cached by domain for the process lifetime.
type DomainInfo struct {
	Domain       string  `json:"domain"`
	IPAddress    string  `json:"ip_address"`
	Organization string  `json:"organization"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	Region       string  `json:"region"`
	City         string  `json:"city"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	ASN          string  `json:"as"`
}

// Resolved reports whether the DNS collector produced a usable address.
func (d DomainInfo) Resolved() bool {
	return d.IPAddress != "" && d.IPAddress != UnknownValue && d.IPAddress != CouldNotResolve
}

// WhoisFeatures holds registration-derived signals. All-zero on lookup failure.
type WhoisFeatures struct {
	DomainAgeDays       float64
	ExpirationDays      float64
	RecentlyRegistered  float64
	PrivacyProtected    float64
	SuspiciousRegistrar float64
}

// CTFeatures holds certificate-transparency log signals. All-zero on failure.
type CTFeatures struct {
	CertCount             float64
	RecentCertCount       float64
	SuspiciousCertPattern float64
}

// ContentFeatures holds signals extracted from the fetched page. All-zero when
// the page could not be fetched.
type ContentFeatures struct {
	PageSizeBytes          float64
	ExternalResourcesCount float64
	FormCount              float64
	PasswordFieldCount     float64
	JSToHTMLRatio          float64
	TitleBrandMismatch     float64
	FaviconExists          float64
	SimilarDomainRedirect  float64
}

// HTMLSecurity is the result of the HTML security scan: an unbounded risk
// accumulator plus human-readable findings.
type HTMLSecurity struct {
	ContentScore   float64  `json:"content_score"`
	RiskFactors    []string `json:"risk_factors"`
	SecurityChecks []string `json:"security_checks"`
}

// PredictionResult is the single output of Analyze. Invariants:
// the Percentage fields of FeatureContributions sum to Score (within rounding),
// and the SectionTotals values sum to Score (within rounding).
type PredictionResult struct {
	Status               string                `json:"status"`
	URL                  string                `json:"url"`
	Domain               string                `json:"domain"`
	Protocol             string                `json:"protocol"`
	Message              string                `json:"message,omitempty"`
	AnalysisDate         time.Time             `json:"analysis_date"`
	Score                float64               `json:"score"`
	RiskLevel            string                `json:"risk_level"`
	IsSuspicious         bool                  `json:"is_suspicious"`
	UsingFallback        bool                  `json:"using_fallback"`
	IsTrustedDomain      bool                  `json:"is_trusted_domain"`
	DomainCategory       string                `json:"domain_category"`
	DomainPopularity     float64               `json:"domain_popularity"`
	FeatureContributions []FeatureContribution `json:"feature_contributions"`
	SectionTotals        map[string]float64    `json:"section_totals"`
	RiskFactors          []RiskFactor          `json:"risk_factors"`
	DomainInfo           DomainInfo            `json:"domain_info"`
	SuspiciousPatterns   []SuspiciousPattern   `json:"suspicious_patterns"`
	HTMLSecurity         HTMLSecurity          `json:"html_security"`
}

// getRiskLevel maps a 0-100 score to its categorical risk level.
func getRiskLevel(score float64) string {
	switch {
	case score < 20:
		return RiskLow
	case score < 50:
		return RiskModerate
	case score < 75:
		return RiskHigh
	default:
		return RiskCritical
	}
}
