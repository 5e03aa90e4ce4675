package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func errTransport() http.RoundTripper {
	return roundTripFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("offline")
	})
}

func htmlTransport(body string) http.RoundTripper {
	return roundTripFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"text/html"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})
}

// testPipeline is an Analyzer with every collector cut off from the network.
// Tests seed the resolver cache and swap transports per scenario.
type testPipeline struct {
	analyzer *Analyzer
	resolver *Resolver
	geo      *GeoClient
}

func newOfflinePipeline(t *testing.T) *testPipeline {
	t.Helper()

	resolver := NewResolver("", 50*time.Millisecond, 256)
	geo := NewGeoClient("http://geo.invalid/json", 50*time.Millisecond, nil, 256)
	geo.Client = &http.Client{Transport: errTransport()}

	whois := NewWhoisClient("whois.invalid:43", 50*time.Millisecond, 256)
	whois.DialFunc = func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, errors.New("offline")
	}

	ct := NewCTClient("http://ct.invalid", 50*time.Millisecond, nil, 256)
	ct.Client = &http.Client{Transport: errTransport()}

	content := NewContentCollector(50*time.Millisecond, "test-agent")
	content.Client = &http.Client{Transport: errTransport()}

	return &testPipeline{
		analyzer: &Analyzer{
			classifier: UnavailableClassifier{},
			trust:      NewTrustChecker(256),
			whois:      whois,
			ct:         ct,
			content:    content,
			domainInfo: NewDomainInfoService(resolver, geo, 256),
			ranges:     NewRangeClassifier(),
			threshold:  50,
		},
		resolver: resolver,
		geo:      geo,
	}
}

func assertResultInvariants(t *testing.T, result PredictionResult) {
	t.Helper()
	assert.InDelta(t, result.Score, sumContributions(result.FeatureContributions), 0.051)
	assert.InDelta(t, result.Score, sumSections(result.SectionTotals), 0.051)
	assert.Equal(t, getRiskLevel(result.Score), result.RiskLevel)
	assert.NotNil(t, result.SuspiciousPatterns)
	assert.NotNil(t, result.RiskFactors)
}

func resultPatternNames(result PredictionResult) []string {
	names := make([]string, 0, len(result.SuspiciousPatterns))
	for _, p := range result.SuspiciousPatterns {
		names = append(names, p.Pattern)
	}
	return names
}

func TestAnalyzeIPHostFallback(t *testing.T) {
	pipeline := newOfflinePipeline(t)

	result := pipeline.analyzer.Analyze(context.Background(), "http://192.168.1.1/login")

	assert.Equal(t, statusSuccess, result.Status)
	assert.True(t, result.UsingFallback)
	assert.False(t, result.IsTrustedDomain)
	assert.Contains(t, resultPatternNames(result), "IP address as domain")
	assert.Contains(t, resultPatternNames(result), "Insecure HTTP")
	assert.GreaterOrEqual(t, result.Score, 50.0)
	assert.True(t, result.IsSuspicious)
	// IP literals resolve to themselves.
	assert.Equal(t, "192.168.1.1", result.DomainInfo.IPAddress)
	assertResultInvariants(t, result)
}

func TestAnalyzeTrustedDomain(t *testing.T) {
	pipeline := newOfflinePipeline(t)

	geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","country":"United States","countryCode":"US",` +
			`"regionName":"Virginia","city":"Ashburn","lat":39.03,"lon":-77.5,` +
			`"org":"Wikimedia Foundation","timezone":"America/New_York","as":"AS14907"}`))
	}))
	defer geoServer.Close()
	pipeline.geo.BaseURL = geoServer.URL
	pipeline.geo.Client = geoServer.Client()

	pipeline.resolver.cache.Add("www.wikipedia.org", "208.80.154.224")
	pipeline.analyzer.content.Client = &http.Client{Transport: htmlTransport(
		`<html><head><title>Wikipedia</title><link rel="icon" href="/favicon.ico"></head>` +
			`<body><p>The free encyclopedia.</p></body></html>`)}

	result := pipeline.analyzer.Analyze(context.Background(), "https://www.wikipedia.org")

	assert.Equal(t, statusSuccess, result.Status)
	assert.True(t, result.IsTrustedDomain)
	assert.True(t, result.UsingFallback)
	assert.Empty(t, result.SuspiciousPatterns)
	assert.Equal(t, 0.0, result.SectionTotals[SectionPatterns])
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.False(t, result.IsSuspicious)
	assert.Equal(t, "208.80.154.224", result.DomainInfo.IPAddress)
	assert.Equal(t, "United States", result.DomainInfo.Country)
	assert.Equal(t, "US", result.DomainInfo.CountryCode)
	assert.GreaterOrEqual(t, result.DomainPopularity, 5.4)
	assertResultInvariants(t, result)
}

func TestAnalyzePhishingScenario(t *testing.T) {
	pipeline := newOfflinePipeline(t)
	pipeline.resolver.cache.Add("paypa1-secure-login.tk", CouldNotResolve)

	result := pipeline.analyzer.Analyze(context.Background(), "http://paypa1-secure-login.tk/verify?token=abc123")

	assert.Equal(t, statusSuccess, result.Status)
	assert.True(t, result.UsingFallback)
	assert.False(t, result.IsTrustedDomain)

	names := resultPatternNames(result)
	assert.Contains(t, names, "Insecure HTTP")
	assert.Contains(t, names, "Suspicious TLD")
	assert.Contains(t, names, "Suspicious keywords")
	assert.GreaterOrEqual(t, len(names), 3)

	assert.Equal(t, CouldNotResolve, result.DomainInfo.IPAddress)
	assert.GreaterOrEqual(t, result.Score, 50.0)
	assert.True(t, result.IsSuspicious)
	assert.Less(t, result.DomainPopularity, 5.4)

	_, hasUnresolvable := factorByName(result.RiskFactors, "unresolvable_domain")
	assert.True(t, hasUnresolvable)
	assertResultInvariants(t, result)
}

func TestAnalyzeModelPath(t *testing.T) {
	pipeline := newOfflinePipeline(t)
	clf, err := NewLinearClassifier(mustWeightsJSON(t, make([]float64, vectorWidth), 0))
	require.NoError(t, err)
	pipeline.analyzer.classifier = clf
	pipeline.resolver.cache.Add("example.com", "93.184.216.34")

	result := pipeline.analyzer.Analyze(context.Background(), "http://example.com/")

	// sigmoid(0) puts the model score at exactly 50 before calibration.
	assert.False(t, result.UsingFallback)
	assert.Equal(t, 50.0, result.Score)
	assert.Empty(t, result.RiskFactors)
	assertResultInvariants(t, result)
}

func TestAnalyzeModelPathUnresolvable(t *testing.T) {
	pipeline := newOfflinePipeline(t)
	clf, err := NewLinearClassifier(mustWeightsJSON(t, make([]float64, vectorWidth), 0))
	require.NoError(t, err)
	pipeline.analyzer.classifier = clf
	pipeline.resolver.cache.Add("qqq-unknown-host.com", CouldNotResolve)

	result := pipeline.analyzer.Analyze(context.Background(), "http://qqq-unknown-host.com/")

	assert.False(t, result.UsingFallback)
	assert.Equal(t, 60.0, result.Score)

	factor, ok := factorByName(result.RiskFactors, "unresolvable_domain")
	require.True(t, ok)
	assert.Equal(t, unresolvableDomainPenalty, factor.Contribution)
	assertResultInvariants(t, result)
}

func TestAnalyzeIdempotent(t *testing.T) {
	pipeline := newOfflinePipeline(t)
	pipeline.resolver.cache.Add("paypa1-secure-login.tk", CouldNotResolve)

	first := pipeline.analyzer.Analyze(context.Background(), "http://paypa1-secure-login.tk/verify?token=abc123")
	second := pipeline.analyzer.Analyze(context.Background(), "http://paypa1-secure-login.tk/verify?token=abc123")

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.RiskLevel, second.RiskLevel)
	assert.Equal(t, first.SuspiciousPatterns, second.SuspiciousPatterns)
	assert.Equal(t, first.SectionTotals, second.SectionTotals)
}

func TestAnalyzeBadURL(t *testing.T) {
	pipeline := newOfflinePipeline(t)

	result := pipeline.analyzer.Analyze(context.Background(), "http://[::1")

	assert.Equal(t, statusError, result.Status)
	assert.NotEmpty(t, result.Message)
	assert.Equal(t, RiskLow, result.RiskLevel)
	assert.Equal(t, 0.0, result.Score)
	// Error results stay structurally complete.
	assert.Len(t, result.SectionTotals, 3)
	assert.NotNil(t, result.FeatureContributions)
	assert.NotNil(t, result.SuspiciousPatterns)
	assert.Equal(t, UnknownValue, result.DomainInfo.IPAddress)
}

func TestAnalyzeNoHost(t *testing.T) {
	pipeline := newOfflinePipeline(t)

	result := pipeline.analyzer.Analyze(context.Background(), "http://")
	assert.Equal(t, statusError, result.Status)
}

func TestAnalyzeSuspiciousThreshold(t *testing.T) {
	pipeline := newOfflinePipeline(t)
	pipeline.analyzer.threshold = 99

	result := pipeline.analyzer.Analyze(context.Background(), "http://192.168.1.1/login")

	// A raised threshold keeps the score intact but withholds the verdict.
	assert.GreaterOrEqual(t, result.Score, 50.0)
	assert.Less(t, result.Score, 99.0)
	assert.False(t, result.IsSuspicious)
}

func TestNewAnalyzerWiresDefaults(t *testing.T) {
	analyzer := NewAnalyzer(DefaultConfig())
	require.NotNil(t, analyzer)
	assert.False(t, analyzer.classifier.Available())
	assert.NotNil(t, analyzer.trust)
	assert.NotNil(t, analyzer.domainInfo)
	assert.NotNil(t, analyzer.ranges)
	// The 0-1 configured threshold lands on the 0-100 score scale.
	assert.Equal(t, 50.0, analyzer.threshold)
}
