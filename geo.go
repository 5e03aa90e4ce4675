/*
File: geo.go
Version: 1.2.0
Description: IP geolocation collector against an ip-api.com style JSON
             endpoint. Failures produce a fully populated result with
             "Unknown" strings and a fixed default coordinate pair.
*/

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Default coordinates keep map rendering and distance math well-defined when
// the lookup fails.
const (
	defaultLatitude  = 40.7128
	defaultLongitude = -74.0060
)

type geoAPIResponse struct {
	Status      string  `json:"status"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Org         string  `json:"org"`
	ISP         string  `json:"isp"`
	Timezone    string  `json:"timezone"`
	AS          string  `json:"as"`
}

// GeoClient looks up IP geolocation. BaseURL and Client are exported for test
// injection.
type GeoClient struct {
	BaseURL string
	Client  *http.Client

	limiter *OutboundLimiter
	cache   *ShardedCache[GeoInfo]
}

func NewGeoClient(baseURL string, timeout time.Duration, limiter *OutboundLimiter, cacheSize int) *GeoClient {
	return &GeoClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
		limiter: limiter,
		cache:   NewShardedCache[GeoInfo](cacheSize),
	}
}

// unknownGeoInfo is the sentinel result for failed lookups.
func unknownGeoInfo() GeoInfo {
	return GeoInfo{
		Country:     UnknownValue,
		CountryCode: UnknownValue,
		Region:      UnknownValue,
		City:        UnknownValue,
		Latitude:    defaultLatitude,
		Longitude:   defaultLongitude,
		Org:         UnknownValue,
		Timezone:    UnknownValue,
		ASN:         UnknownValue,
	}
}

// Lookup geolocates an IP address. Never returns an error, failures are
// logged and yield the Unknown sentinel result.
func (gc *GeoClient) Lookup(ctx context.Context, ip string) GeoInfo {
	if ip == "" || ip == UnknownValue || ip == CouldNotResolve {
		return unknownGeoInfo()
	}

	if cached, ok := gc.cache.Get(ip); ok {
		return cached
	}

	info := gc.fetch(ctx, ip)
	gc.cache.Add(ip, info)
	return info
}

func (gc *GeoClient) fetch(ctx context.Context, ip string) GeoInfo {
	endpoint := fmt.Sprintf("%s/%s", gc.BaseURL, url.PathEscape(ip))

	parsed, err := url.Parse(endpoint)
	if err != nil {
		LogWarn("[GEO] bad endpoint %s: %v", endpoint, err)
		return unknownGeoInfo()
	}
	if gc.limiter != nil && !gc.limiter.Wait(ctx, parsed.Host) {
		LogDebug("[GEO] lookup for %s skipped by rate limiter", ip)
		return unknownGeoInfo()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return unknownGeoInfo()
	}

	resp, err := gc.Client.Do(req)
	if err != nil {
		LogDebug("[GEO] lookup for %s failed: %v", ip, err)
		return unknownGeoInfo()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		LogDebug("[GEO] lookup for %s returned HTTP %d", ip, resp.StatusCode)
		return unknownGeoInfo()
	}

	var data geoAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		LogDebug("[GEO] decoding response for %s failed: %v", ip, err)
		return unknownGeoInfo()
	}
	if data.Status != "" && data.Status != statusSuccess {
		return unknownGeoInfo()
	}

	info := unknownGeoInfo()
	if data.Country != "" {
		info.Country = data.Country
	}
	if data.CountryCode != "" {
		info.CountryCode = data.CountryCode
	}
	if data.RegionName != "" {
		info.Region = data.RegionName
	}
	if data.City != "" {
		info.City = data.City
	}
	if data.Lat != 0 || data.Lon != 0 {
		info.Latitude = data.Lat
		info.Longitude = data.Lon
	}
	if data.Org != "" {
		info.Org = data.Org
	} else if data.ISP != "" {
		info.Org = data.ISP
	}
	if data.Timezone != "" {
		info.Timezone = data.Timezone
	}
	if data.AS != "" {
		info.ASN = data.AS
	}
	return info
}
