/*
File: domaininfo.go
Version: 1.2.0
Description: DomainInfo assembly from the DNS and geolocation collectors.
             Results are cached per domain and concurrent lookups for the same
             domain are coalesced into one flight.
*/

package main

import (
	"context"
)

// DomainInfoService combines resolution and geolocation into the DomainInfo
// record shown to users and fed to the reputation features.
type DomainInfoService struct {
	resolver *Resolver
	geo      *GeoClient
	flights  *FlightGroup
	cache    *ShardedCache[DomainInfo]
}

func NewDomainInfoService(resolver *Resolver, geo *GeoClient, cacheSize int) *DomainInfoService {
	return &DomainInfoService{
		resolver: resolver,
		geo:      geo,
		flights:  NewFlightGroup(),
		cache:    NewShardedCache[DomainInfo](cacheSize),
	}
}

// Lookup builds the DomainInfo for a host. Always returns a structurally
// complete record, unresolvable hosts carry the sentinel address and Unknown
// geolocation fields.
func (ds *DomainInfoService) Lookup(ctx context.Context, host string) DomainInfo {
	if cached, ok := ds.cache.Get(host); ok {
		return cached
	}

	v, _, _ := ds.flights.Do(host, func() (interface{}, error) {
		// Double check under the flight, a concurrent caller may have
		// populated the cache while we waited.
		if cached, ok := ds.cache.Get(host); ok {
			return cached, nil
		}

		info := ds.build(ctx, host)
		ds.cache.Add(host, info)
		return info, nil
	})

	return v.(DomainInfo)
}

func (ds *DomainInfoService) build(ctx context.Context, host string) DomainInfo {
	ip := ds.resolver.Resolve(ctx, host)

	info := DomainInfo{
		Domain:       host,
		IPAddress:    ip,
		Organization: UnknownValue,
		Country:      UnknownValue,
		CountryCode:  UnknownValue,
		Region:       UnknownValue,
		City:         UnknownValue,
		Latitude:     defaultLatitude,
		Longitude:    defaultLongitude,
		Timezone:     UnknownValue,
		ASN:          UnknownValue,
	}

	if ip == CouldNotResolve {
		return info
	}

	geo := ds.geo.Lookup(ctx, ip)
	info.Organization = geo.Org
	info.Country = geo.Country
	info.CountryCode = geo.CountryCode
	info.Region = geo.Region
	info.City = geo.City
	info.Latitude = geo.Latitude
	info.Longitude = geo.Longitude
	info.Timezone = geo.Timezone
	info.ASN = geo.ASN
	return info
}

// ReputationFeatures grades coarse trust signals from registration age,
// hosting location and TLD. Zero values mean unknown.
func ReputationFeatures(host string, whois WhoisFeatures, info DomainInfo, ranges *RangeClassifier) map[string]float64 {
	features := map[string]float64{
		"rep_domain_age_category":     0,
		"rep_ip_blacklisted":          0,
		"rep_domain_blacklisted":      0,
		"rep_suspicious_tld_category": 0,
		"rep_suspicious_country":      0,
		"rep_special_purpose_ip":      0,
	}

	if whois.DomainAgeDays > 0 {
		switch {
		case whois.DomainAgeDays < 30:
			features["rep_domain_age_category"] = 1
		case whois.DomainAgeDays < 180:
			features["rep_domain_age_category"] = 2
		default:
			features["rep_domain_age_category"] = 3
		}
	}

	if _, ok := highRiskCountries[info.CountryCode]; ok {
		features["rep_suspicious_country"] = 1
	}

	if info.Organization != UnknownValue {
		for _, org := range flaggedHostingOrgs {
			if containsFold(info.Organization, org) {
				features["rep_ip_blacklisted"] = 0.5
				break
			}
		}
	}

	tld := ExtractTLD(host)
	if _, ok := highRiskSuspiciousTLDs[tld]; ok {
		features["rep_suspicious_tld_category"] = 2
	} else if _, ok := mediumRiskSuspiciousTLDs[tld]; ok {
		features["rep_suspicious_tld_category"] = 1
	}

	if ranges != nil && info.Resolved() && ranges.IsSpecialPurpose(info.IPAddress) {
		features["rep_special_purpose_ip"] = 1
	}

	return features
}
