/*
File: calibrate.go
Version: 1.4.0
Description: Calibration and attribution engine. Blends the scorer output with
             the fixed section weights, decomposes the final score into
             per-feature contributions that sum exactly to it, and maps the
             score to a risk level. The most delicate contract in the
             pipeline, every change here must keep the sum invariants intact.
*/

package main

import (
	"math"
	"sort"
)

// httpsAbsentContribution is the fixed percentage assigned to a missing TLS
// scheme before any normalization.
const httpsAbsentContribution = 24.6

// Section weights of the final score: Key Risk Factors 40, Domain
// Information 10, Suspicious Patterns 50.
const (
	keyRiskWeight    = 0.40
	domainInfoWeight = 0.10
)

// unresolvableDomainPenalty is added to the model-path score when DNS
// resolution failed.
const unresolvableDomainPenalty = 10.0

type contributionRule struct {
	name    string
	section string
	applies func(v float64) bool
	amount  func(v float64) float64
}

func fixedAmount(c float64) func(float64) float64 {
	return func(float64) float64 { return c }
}

// contributionRules is the fixed per-feature weighting table. A feature
// absent from this table never contributes.
var contributionRules = []contributionRule{
	{"url_length", SectionKeyRisk,
		func(v float64) bool { return v > 50 },
		func(v float64) float64 { return 0.1 * (v / 100) }},
	{"domain_length", SectionKeyRisk,
		func(v float64) bool { return v > 15 },
		func(v float64) float64 { return 0.15 * (v / 30) }},
	{"domain_entropy", SectionKeyRisk,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.1 * math.Min(v/3.0, 1.0) }},
	{"special_char_count", SectionKeyRisk,
		func(v float64) bool { return v > 3 },
		func(v float64) float64 { return 0.1 * (v / 10) }},
	{"tld_score", SectionKeyRisk,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.15 * v / 0.5 }},
	{"https_present", SectionKeyRisk,
		func(v float64) bool { return v < 1 },
		fixedAmount(httpsAbsentContribution)},
	{"content_favicon_exists", SectionKeyRisk,
		func(v float64) bool { return v < 1 },
		fixedAmount(0.08)},

	{"rep_domain_age_category", SectionDomainInfo,
		func(v float64) bool { return v < 2 },
		func(v float64) float64 { return 0.15 * (2 - v) / 2 }},
	{"rep_suspicious_tld_category", SectionDomainInfo,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.15 * v }},
	{"rep_suspicious_country", SectionDomainInfo,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.15)},
	{"whois_recently_registered", SectionDomainInfo,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.2)},
	{"ct_suspicious_cert_pattern", SectionDomainInfo,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.15)},
	{"geo_suspicious_country", SectionDomainInfo,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.15)},

	{"content_form_count", SectionPatterns,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.15 * math.Min(v/2, 1.0) }},
	{"content_password_field_count", SectionPatterns,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.3 * math.Min(v/2.0, 1.0) }},
	{"content_external_resources_count", SectionPatterns,
		func(v float64) bool { return v > 3 },
		func(v float64) float64 { return 0.12 * math.Min(v/15, 1.0) }},
	{"content_js_to_html_ratio", SectionPatterns,
		func(v float64) bool { return v > 0.3 },
		func(v float64) float64 { return 0.15 * math.Min(v/0.5, 1.0) }},
	{"content_title_brand_mismatch", SectionPatterns,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.2)},
	{"content_similar_domain_redirect", SectionPatterns,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.35)},
	{"html_security_score", SectionPatterns,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.2 * math.Min(v/50, 1.0) }},
	{"html_risk_factor_count", SectionPatterns,
		func(v float64) bool { return v > 0 },
		func(v float64) float64 { return 0.15 * math.Min(v/3, 1.0) }},
	{"html_has_password_field", SectionPatterns,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.25)},
	{"html_has_obfuscated_js", SectionPatterns,
		func(v float64) bool { return v > 0 },
		fixedAmount(0.3)},
}

// Calibration is the attributed final score.
type Calibration struct {
	Score         float64
	RiskLevel     string
	Contributions []FeatureContribution
	SectionTotals map[string]float64
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clampScore(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// computeContributions applies the rule table to the assembled features.
// Non-finite feature values are skipped rather than poisoning the totals.
func computeContributions(fs *FeatureSet) []FeatureContribution {
	var contributions []FeatureContribution
	for _, rule := range contributionRules {
		if !fs.Has(rule.name) {
			continue
		}
		value := fs.Get(rule.name)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			LogDebug("[CALIBRATE] skipping non-finite value for %s", rule.name)
			continue
		}
		if !rule.applies(value) {
			continue
		}
		amount := rule.amount(value)
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			continue
		}
		contributions = append(contributions, FeatureContribution{
			Name:       rule.name,
			Value:      value,
			Percentage: amount,
			Direction:  "increases",
			Section:    rule.section,
		})
	}

	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Percentage > contributions[j].Percentage
	})
	return contributions
}

// Calibrate turns a raw 0-100 score into the final attributed result.
// patternCount is the number of signature matches; zero forces the
// Suspicious Patterns section to 0 and recomputes the score from the other
// two sections.
func Calibrate(score float64, fs *FeatureSet, patternCount int) Calibration {
	score = clampScore(score)

	keyRisk := round1(keyRiskWeight * score)
	domainInfo := round1(domainInfoWeight * score)
	patterns := round1(score - keyRisk - domainInfo)

	if patternCount == 0 {
		// No explicit suspicious signal: explainability wins over the raw
		// probability and the score collapses to the other two sections.
		patterns = 0
		score = round1(keyRisk + domainInfo)
	}

	contributions := computeContributions(fs)
	contributions = normalizeContributions(contributions, score)

	return Calibration{
		Score:         score,
		RiskLevel:     getRiskLevel(score),
		Contributions: contributions,
		SectionTotals: map[string]float64{
			SectionKeyRisk:    keyRisk,
			SectionDomainInfo: domainInfo,
			SectionPatterns:   patterns,
		},
	}
}

// normalizeContributions rescales the raw contributions so they sum exactly
// to the target score. The HTTPS contribution keeps its fixed value through
// the first pass, then the whole set is scaled together; rounding error is
// absorbed by the largest item.
func normalizeContributions(contributions []FeatureContribution, target float64) []FeatureContribution {
	if target <= 0 {
		for i := range contributions {
			contributions[i].Percentage = 0
		}
		return contributions
	}

	if len(contributions) == 0 {
		// Score with no attributable feature: attach it to a single
		// synthetic entry so the sum invariant holds.
		return []FeatureContribution{{
			Name:       "base_risk",
			Value:      target,
			Percentage: target,
			Direction:  "increases",
			Section:    SectionKeyRisk,
		}}
	}

	// First pass: hold the fixed HTTPS percentage, scale the rest into the
	// remaining budget.
	httpsShare := 0.0
	otherTotal := 0.0
	for _, c := range contributions {
		if c.Name == "https_present" {
			httpsShare = c.Percentage
		} else {
			otherTotal += c.Percentage
		}
	}
	remaining := target - httpsShare
	if remaining < 0 {
		remaining = 0
	}
	if otherTotal > 0 && remaining > 0 {
		factor := remaining / otherTotal
		for i := range contributions {
			if contributions[i].Name != "https_present" {
				contributions[i].Percentage *= factor
			}
		}
	}

	// Second pass: scale everything so the sum matches the target exactly.
	total := 0.0
	for _, c := range contributions {
		total += c.Percentage
	}
	if total > 0 {
		factor := target / total
		for i := range contributions {
			contributions[i].Percentage *= factor
		}
	}

	// Round to one decimal and absorb the residue into the largest item.
	sum := 0.0
	largest := 0
	for i := range contributions {
		contributions[i].Percentage = round1(contributions[i].Percentage)
		sum += contributions[i].Percentage
		if contributions[i].Percentage > contributions[largest].Percentage {
			largest = i
		}
	}
	if residue := round1(target - sum); residue != 0 {
		contributions[largest].Percentage = round1(contributions[largest].Percentage + residue)
	}

	return contributions
}
