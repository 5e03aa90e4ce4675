package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTrustedDomain(t *testing.T) {
	tc := NewTrustChecker(128)

	p := mustParse(t, "https://google.com/search")
	assert.True(t, tc.IsTrustedDomain(p.Host))

	// Punycode lookalike on a free TLD is not trusted.
	p = mustParse(t, "http://xn--goog1e-x1a.tk/login")
	assert.False(t, tc.IsTrustedDomain(p.Host))
}

func TestIsTrustedDomainSubdomainAndWWW(t *testing.T) {
	tc := NewTrustChecker(128)

	assert.True(t, tc.IsTrustedDomain("www.google.com"))
	assert.True(t, tc.IsTrustedDomain("mail.google.com"))
	assert.True(t, tc.IsTrustedDomain("WWW.PayPal.com"))

	// Suffix tricks do not qualify.
	assert.False(t, tc.IsTrustedDomain("google.com.evil.tk"))
	assert.False(t, tc.IsTrustedDomain("notgoogle.com"))
}

func TestTrustVerdictCached(t *testing.T) {
	tc := NewTrustChecker(128)
	require.True(t, tc.IsTrustedDomain("google.com"))

	// Second call must be served from the cache with the same verdict.
	cached, ok := tc.trustCache.Get("google.com")
	require.True(t, ok)
	assert.True(t, cached)
	assert.True(t, tc.IsTrustedDomain("google.com"))
}

func TestDomainCategory(t *testing.T) {
	tc := NewTrustChecker(128)

	assert.Equal(t, "Search Engine", tc.DomainCategory("google.com"))
	assert.Equal(t, "Social Media", tc.DomainCategory("www.facebook.com"))
	assert.Equal(t, "Reference", tc.DomainCategory("wikipedia.org"))

	// Unlisted domains fall back to keyword classification.
	assert.Equal(t, "finance", tc.DomainCategory("mybankonline.xyz"))
	assert.Equal(t, "general", tc.DomainCategory("qwzkv.tk"))
}

func TestDomainCategoryDeterministic(t *testing.T) {
	a := NewTrustChecker(128).DomainCategory("techbankshop.com")
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, NewTrustChecker(128).DomainCategory("techbankshop.com"))
	}
}

func TestPopularityScore(t *testing.T) {
	// Short readable mainstream domain scores high.
	assert.GreaterOrEqual(t, PopularityScore("google.com"), 5.4)

	// Random-looking lookalike on a free TLD scores low.
	assert.Less(t, PopularityScore("xn--goog1e-x1a.tk"), 5.4)

	assert.Greater(t, PopularityScore("wikipedia.org"), PopularityScore("x9z-2qk7.tk"))
}
