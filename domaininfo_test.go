package main

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newOfflineDomainInfoService(t *testing.T) (*DomainInfoService, *Resolver) {
	t.Helper()
	resolver := NewResolver("", 50*time.Millisecond, 64)
	geo := NewGeoClient("http://geo.invalid/json", 50*time.Millisecond, nil, 64)
	geo.Client = &http.Client{Transport: errTransport()}
	return NewDomainInfoService(resolver, geo, 64), resolver
}

func TestDomainInfoLookupResolved(t *testing.T) {
	service, resolver := newOfflineDomainInfoService(t)
	resolver.cache.Add("example.com", "93.184.216.34")

	info := service.Lookup(context.Background(), "example.com")

	assert.Equal(t, "example.com", info.Domain)
	assert.Equal(t, "93.184.216.34", info.IPAddress)
	assert.True(t, info.Resolved())
	// Failed geolocation fills the Unknown fields but keeps the address.
	assert.Equal(t, UnknownValue, info.Country)
	assert.Equal(t, defaultLatitude, info.Latitude)
}

func TestDomainInfoLookupUnresolved(t *testing.T) {
	service, resolver := newOfflineDomainInfoService(t)
	resolver.cache.Add("gone.example", CouldNotResolve)

	info := service.Lookup(context.Background(), "gone.example")

	assert.Equal(t, CouldNotResolve, info.IPAddress)
	assert.False(t, info.Resolved())
	assert.Equal(t, UnknownValue, info.Organization)
}

func TestReputationFeatures(t *testing.T) {
	ranges := NewRangeClassifier()

	fresh := ReputationFeatures("new-shop.xyz",
		WhoisFeatures{DomainAgeDays: 10},
		DomainInfo{IPAddress: "5.255.255.5", CountryCode: "RU", Organization: UnknownValue},
		ranges)
	assert.Equal(t, 1.0, fresh["rep_domain_age_category"])
	assert.Equal(t, 1.0, fresh["rep_suspicious_country"])
	assert.Equal(t, 0.0, fresh["rep_special_purpose_ip"])

	aged := ReputationFeatures("example.com",
		WhoisFeatures{DomainAgeDays: 3650},
		DomainInfo{IPAddress: "93.184.216.34", CountryCode: "US", Organization: "EdgeCast Networks"},
		ranges)
	assert.Equal(t, 3.0, aged["rep_domain_age_category"])
	assert.Equal(t, 0.0, aged["rep_suspicious_country"])
	assert.Equal(t, 0.0, aged["rep_ip_blacklisted"])

	unknownAge := ReputationFeatures("example.com", WhoisFeatures{}, DomainInfo{}, ranges)
	assert.Equal(t, 0.0, unknownAge["rep_domain_age_category"])
}

func TestReputationFeaturesTLDCategories(t *testing.T) {
	ranges := NewRangeClassifier()
	info := DomainInfo{IPAddress: "1.2.3.4", CountryCode: "US", Organization: UnknownValue}

	high := ReputationFeatures("free-prizes.tk", WhoisFeatures{}, info, ranges)
	assert.Equal(t, 2.0, high["rep_suspicious_tld_category"])

	low := ReputationFeatures("example.com", WhoisFeatures{}, info, ranges)
	assert.Equal(t, 0.0, low["rep_suspicious_tld_category"])
}

func TestReputationFeaturesFlaggedHosting(t *testing.T) {
	ranges := NewRangeClassifier()
	info := DomainInfo{IPAddress: "104.16.0.1", CountryCode: "US", Organization: "Cloudflare, Inc."}

	features := ReputationFeatures("example.com", WhoisFeatures{}, info, ranges)
	assert.Equal(t, 0.5, features["rep_ip_blacklisted"])
}

func TestReputationFeaturesSpecialPurposeIP(t *testing.T) {
	ranges := NewRangeClassifier()
	info := DomainInfo{IPAddress: "192.168.1.1", CountryCode: UnknownValue, Organization: UnknownValue}

	features := ReputationFeatures("192.168.1.1", WhoisFeatures{}, info, ranges)
	assert.Equal(t, 1.0, features["rep_special_purpose_ip"])
}
