package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCTClient(t *testing.T, handler http.HandlerFunc) *CTClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewCTClient(server.URL, time.Second, nil, 64)
	client.Client = server.Client()
	return client
}

func TestCTLookupCounts(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour).Format("2006-01-02T15:04:05")
	old := time.Now().Add(-90 * 24 * time.Hour).Format("2006-01-02T15:04:05")

	var requests atomic.Int32
	client := newTestCTClient(t, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "example.com", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("output"))
		fmt.Fprintf(w, `[
			{"name_value":"example.com","not_before":%q},
			{"name_value":"www.example.com","not_before":%q},
			{"name_value":"mail.example.com","not_before":%q}
		]`, recent, old, old)
	})

	features := client.Lookup(context.Background(), "example.com")

	assert.Equal(t, 3.0, features.CertCount)
	assert.Equal(t, 1.0, features.RecentCertCount)
	assert.Equal(t, 0.0, features.SuspiciousCertPattern)

	client.Lookup(context.Background(), "example.com")
	assert.Equal(t, int32(1), requests.Load())
}

func TestCTLookupSuspiciousNames(t *testing.T) {
	client := newTestCTClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name_value":"secure-login.paypa1.tk","not_before":"2024-01-01T00:00:00"}]`))
	})

	features := client.Lookup(context.Background(), "paypa1.tk")
	assert.Equal(t, 1.0, features.SuspiciousCertPattern)
}

func TestCTLookupHTTPError(t *testing.T) {
	client := newTestCTClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	assert.Equal(t, CTFeatures{}, client.Lookup(context.Background(), "example.com"))
}

func TestCTLookupBadJSON(t *testing.T) {
	client := newTestCTClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	})

	assert.Equal(t, CTFeatures{}, client.Lookup(context.Background(), "example.com"))
}

func TestCTLookupTransportError(t *testing.T) {
	client := NewCTClient("http://ct.invalid", time.Second, nil, 64)
	client.Client = &http.Client{Transport: errTransport()}

	assert.Equal(t, CTFeatures{}, client.Lookup(context.Background(), "example.com"))
	assert.Equal(t, CTFeatures{}, client.Lookup(context.Background(), ""))
}
