/*
File: analyzer.go
Version: 1.3.0
Description: Analysis orchestration. Owns the collectors, caches and the
             classifier, runs the independent probes concurrently and fuses
             their outputs through the calibration engine into one
             PredictionResult.
*/

package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Analyzer is the pipeline entry point. Safe for concurrent use; all shared
// state lives in the collectors' own caches.
type Analyzer struct {
	classifier Classifier
	trust      *TrustChecker
	whois      *WhoisClient
	ct         *CTClient
	content    *ContentCollector
	domainInfo *DomainInfoService
	ranges     *RangeClassifier

	// threshold is the 0-100 score above which a result is marked suspicious.
	threshold float64
}

// NewAnalyzer wires the full pipeline from configuration.
func NewAnalyzer(cfg *Config) *Analyzer {
	limiter := NewOutboundLimiter(cfg.RateLimit)
	resolver := NewResolver(cfg.Collectors.DNS.Upstream, cfg.Collectors.DNS.parsedTimeout, cfg.Cache.ResolveSize)
	geo := NewGeoClient(cfg.Collectors.Geo.BaseURL, cfg.Collectors.Geo.parsedTimeout, limiter, cfg.Cache.GeoSize)

	return &Analyzer{
		classifier: LoadClassifier(cfg.Classifier),
		trust:      NewTrustChecker(cfg.Cache.TrustSize),
		whois:      NewWhoisClient(cfg.Collectors.Whois.Server, cfg.Collectors.Whois.parsedTimeout, cfg.Cache.DomainInfoSize),
		ct:         NewCTClient(cfg.Collectors.CTLog.BaseURL, cfg.Collectors.CTLog.parsedTimeout, limiter, cfg.Cache.CTSize),
		content:    NewContentCollector(cfg.Collectors.Content.parsedTimeout, cfg.Collectors.UserAgent),
		domainInfo: NewDomainInfoService(resolver, geo, cfg.Cache.DomainInfoSize),
		ranges:     NewRangeClassifier(),
		threshold:  cfg.Classifier.Threshold * 100,
	}
}

// Analyze scores a URL. It always returns a structurally complete result;
// collector failures degrade to sentinel values and an unparseable URL yields
// an error-status result rather than an error return.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) PredictionResult {
	start := time.Now()

	parsed, err := ParseURL(rawURL)
	if err != nil {
		LogWarn("[ANALYZE] unparseable URL %q: %v", rawURL, err)
		return errorResult(rawURL, fmt.Sprintf("could not parse URL: %v", err))
	}

	host := parsed.Host
	if host == "" {
		return errorResult(rawURL, "URL has no host")
	}
	registrable := RegistrableDomain(host)

	// Independent collectors run concurrently. None of them returns an
	// error, so the group only propagates context cancellation.
	var (
		info     DomainInfo
		whoisF   WhoisFeatures
		ctF      CTFeatures
		contentF ContentFeatures
		htmlSec  HTMLSecurity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		info = a.domainInfo.Lookup(gctx, host)
		return nil
	})
	g.Go(func() error {
		whoisF = a.whois.Lookup(gctx, registrable)
		return nil
	})
	g.Go(func() error {
		ctF = a.ct.Lookup(gctx, registrable)
		return nil
	})
	g.Go(func() error {
		contentF, htmlSec = a.content.Collect(gctx, parsed.Raw)
		return nil
	})
	_ = g.Wait()

	patterns := DetectPatterns(parsed, info.Resolved())
	trusted := a.trust.IsTrustedDomain(host)
	category := a.trust.DomainCategory(host)

	geoInfo := GeoInfo{
		Country:     info.Country,
		CountryCode: info.CountryCode,
		Org:         info.Organization,
	}

	features := AssembleFeatures(
		ExtractLexicalFeatures(parsed),
		ExtractNLPFeatures(host),
		ReputationFeatures(host, whoisF, info, a.ranges),
		WhoisFeatureMap(whoisF),
		CTFeatureMap(ctF),
		ContentFeatureMap(contentF),
		HTMLFeatureMap(htmlSec),
		GeoFeatureMap(geoInfo),
	)

	score, riskFactors, usingFallback := a.scoreURL(parsed, features, trusted, patterns, info, htmlSec)

	cal := Calibrate(score, features, len(patterns))

	result := PredictionResult{
		Status:               statusSuccess,
		URL:                  parsed.Raw,
		Domain:               host,
		Protocol:             parsed.Scheme,
		AnalysisDate:         time.Now(),
		Score:                cal.Score,
		RiskLevel:            cal.RiskLevel,
		IsSuspicious:         cal.Score > a.threshold,
		UsingFallback:        usingFallback,
		IsTrustedDomain:      trusted,
		DomainCategory:       category,
		DomainPopularity:     PopularityScore(host),
		FeatureContributions: cal.Contributions,
		SectionTotals:        cal.SectionTotals,
		RiskFactors:          riskFactors,
		DomainInfo:           info,
		SuspiciousPatterns:   patterns,
		HTMLSecurity:         htmlSec,
	}

	LogInfo("[ANALYZE] %s scored %.1f (%s) in %v (fallback=%v, patterns=%d)",
		parsed.Raw, result.Score, result.RiskLevel, time.Since(start).Round(time.Millisecond),
		usingFallback, len(patterns))
	return result
}

// scoreURL runs the model path when the classifier is available and degrades
// to the rule-based scorer otherwise.
func (a *Analyzer) scoreURL(parsed ParsedURL, features *FeatureSet, trusted bool,
	patterns []SuspiciousPattern, info DomainInfo, htmlSec HTMLSecurity) (float64, []RiskFactor, bool) {

	if a.classifier.Available() {
		probability, err := a.classifier.Score(features.Vector())
		if err == nil {
			score := probability * 100
			// The model never reports absolute certainty either way.
			if score < 5 {
				score = 5
			}
			if score > 95 {
				score = 95
			}

			factors := []RiskFactor{}
			if !info.Resolved() {
				score += unresolvableDomainPenalty
				if score > 100 {
					score = 100
				}
				factors = append(factors, RiskFactor{
					Name:         "unresolvable_domain",
					Description:  "Domain could not be resolved to an IP address",
					Impact:       "high",
					Contribution: unresolvableDomainPenalty,
				})
			}
			return score, factors, false
		}
		LogWarn("[ANALYZE] classifier failed for %s: %v, using rule-based fallback", parsed.Raw, err)
	}

	score, factors := FallbackScore(parsed, trusted, patterns, info, htmlSec)
	return score, factors, true
}

// errorResult is the structurally complete shape returned for inputs that
// cannot enter the pipeline.
func errorResult(rawURL, message string) PredictionResult {
	return PredictionResult{
		Status:               statusError,
		URL:                  rawURL,
		Message:              message,
		AnalysisDate:         time.Now(),
		RiskLevel:            getRiskLevel(0),
		FeatureContributions: []FeatureContribution{},
		SectionTotals: map[string]float64{
			SectionKeyRisk:    0,
			SectionDomainInfo: 0,
			SectionPatterns:   0,
		},
		RiskFactors: []RiskFactor{},
		DomainInfo: DomainInfo{
			IPAddress:    UnknownValue,
			Organization: UnknownValue,
			Country:      UnknownValue,
			CountryCode:  UnknownValue,
			Region:       UnknownValue,
			City:         UnknownValue,
			Latitude:     defaultLatitude,
			Longitude:    defaultLongitude,
			Timezone:     UnknownValue,
			ASN:          UnknownValue,
		},
		SuspiciousPatterns: []SuspiciousPattern{},
		HTMLSecurity:       emptyHTMLSecurity(),
	}
}
