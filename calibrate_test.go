package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFeatureSet(t *testing.T, raw string) *FeatureSet {
	t.Helper()
	p := mustParse(t, raw)
	return AssembleFeatures(
		ExtractLexicalFeatures(p),
		ExtractNLPFeatures(p.Host),
	)
}

func sumContributions(contributions []FeatureContribution) float64 {
	sum := 0.0
	for _, c := range contributions {
		sum += c.Percentage
	}
	return sum
}

func sumSections(totals map[string]float64) float64 {
	sum := 0.0
	for _, v := range totals {
		sum += v
	}
	return sum
}

func TestCalibrateSumInvariants(t *testing.T) {
	fs := testFeatureSet(t, "http://paypa1-secure-login.tk/verify?token=abc123")

	for _, score := range []float64{0, 12.5, 37, 50, 73.3, 100} {
		cal := Calibrate(score, fs, 3)

		assert.InDeltaf(t, cal.Score, sumContributions(cal.Contributions), 0.051,
			"contributions must sum to score %v", score)
		assert.InDeltaf(t, cal.Score, sumSections(cal.SectionTotals), 0.051,
			"section totals must sum to score %v", score)
	}
}

func TestCalibrateSectionWeights(t *testing.T) {
	fs := testFeatureSet(t, "http://paypa1-secure-login.tk/verify?token=abc123")
	cal := Calibrate(80, fs, 2)

	assert.InDelta(t, 32.0, cal.SectionTotals[SectionKeyRisk], 0.051)
	assert.InDelta(t, 8.0, cal.SectionTotals[SectionDomainInfo], 0.051)
	assert.InDelta(t, 40.0, cal.SectionTotals[SectionPatterns], 0.051)
}

func TestCalibrateZeroPatternsOverride(t *testing.T) {
	fs := testFeatureSet(t, "https://www.wikipedia.org")
	cal := Calibrate(60, fs, 0)

	assert.Equal(t, 0.0, cal.SectionTotals[SectionPatterns])
	// Score collapses to the other two sections.
	assert.InDelta(t, cal.SectionTotals[SectionKeyRisk]+cal.SectionTotals[SectionDomainInfo], cal.Score, 0.051)
	assert.InDelta(t, cal.Score, sumContributions(cal.Contributions), 0.051)
	assert.Less(t, cal.Score, 60.0)
}

func TestCalibrateClampsOutOfRange(t *testing.T) {
	fs := testFeatureSet(t, "http://example.com/")

	assert.Equal(t, 0.0, Calibrate(-10, fs, 1).Score)
	assert.Equal(t, 100.0, Calibrate(250, fs, 1).Score)
	assert.Equal(t, 0.0, Calibrate(math.NaN(), fs, 1).Score)
}

func TestCalibrateRiskLevels(t *testing.T) {
	assert.Equal(t, RiskLow, getRiskLevel(0))
	assert.Equal(t, RiskLow, getRiskLevel(19.9))
	assert.Equal(t, RiskModerate, getRiskLevel(20))
	assert.Equal(t, RiskModerate, getRiskLevel(49.9))
	assert.Equal(t, RiskHigh, getRiskLevel(50))
	assert.Equal(t, RiskHigh, getRiskLevel(74.9))
	assert.Equal(t, RiskCritical, getRiskLevel(75))
	assert.Equal(t, RiskCritical, getRiskLevel(100))
}

func TestHTTPSAbsentFixedContribution(t *testing.T) {
	fs := testFeatureSet(t, "http://paypa1-secure-login.tk/verify?token=abc123")
	contributions := computeContributions(fs)

	var https *FeatureContribution
	for i := range contributions {
		if contributions[i].Name == "https_present" {
			https = &contributions[i]
		}
	}
	require.NotNil(t, https, "missing TLS must always contribute")
	assert.Equal(t, httpsAbsentContribution, https.Percentage)
	assert.Equal(t, SectionKeyRisk, https.Section)
}

func TestHTTPSPresentNoContribution(t *testing.T) {
	fs := testFeatureSet(t, "https://www.wikipedia.org")
	for _, c := range computeContributions(fs) {
		assert.NotEqual(t, "https_present", c.Name)
	}
}

func TestCalibrateNonFiniteFeatureSkipped(t *testing.T) {
	fs := testFeatureSet(t, "http://example.com/")
	fs.Values["domain_entropy"] = math.NaN()
	fs.Values["special_char_count"] = math.Inf(1)

	cal := Calibrate(40, fs, 1)
	assert.InDelta(t, 40.0, sumContributions(cal.Contributions), 0.051)
	for _, c := range cal.Contributions {
		assert.False(t, math.IsNaN(c.Percentage))
		assert.NotEqual(t, "domain_entropy", c.Name)
		assert.NotEqual(t, "special_char_count", c.Name)
	}
}

func TestCalibrateSyntheticContribution(t *testing.T) {
	// A feature set where no rule fires still attributes the whole score.
	fs := AssembleFeatures(map[string]float64{"https_present": 1})
	cal := Calibrate(30, fs, 1)

	require.Len(t, cal.Contributions, 1)
	assert.Equal(t, "base_risk", cal.Contributions[0].Name)
	assert.InDelta(t, 30.0, cal.Contributions[0].Percentage, 0.051)
}

func TestCalibrateZeroScoreZeroContributions(t *testing.T) {
	fs := testFeatureSet(t, "http://paypa1-secure-login.tk/verify?token=abc123")
	cal := Calibrate(0, fs, 1)

	assert.Equal(t, 0.0, cal.Score)
	assert.Equal(t, 0.0, sumContributions(cal.Contributions))
	assert.Equal(t, 0.0, sumSections(cal.SectionTotals))
}

func TestCalibrateContributionsSorted(t *testing.T) {
	fs := testFeatureSet(t, "http://paypa1-secure-login.tk/verify?token=abc123")
	contributions := computeContributions(fs)

	for i := 1; i < len(contributions); i++ {
		assert.GreaterOrEqual(t, contributions[i-1].Percentage, contributions[i].Percentage)
	}
}
