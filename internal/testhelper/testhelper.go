// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package testhelper contains helpers shared by the package tests.
package testhelper

import (
	"net/http"
	"os"
	"testing"
)

// TestOnlineAPIURL is a public endpoint used by tests that require network access.
const TestOnlineAPIURL = "https://httpbin.org/json"

// MockRoundTripper is a http.RoundTripper that hands every request to Fn.
type MockRoundTripper struct {
	Fn func(*http.Request) (*http.Response, error)
}

func (m MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.Fn(req)
}

// PerformIntegrationTests skips the calling test unless PERFORM_ONLINE_TEST is set.
func PerformIntegrationTests(t *testing.T) {
	t.Helper()
	if os.Getenv("PERFORM_ONLINE_TEST") == "" {
		t.Skip("skipping online test, set PERFORM_ONLINE_TEST to enable")
	}
}

// FileResponder returns a round trip function that answers every request with the given status code
// and the content of the given file.
func FileResponder(t *testing.T, status int, file string) func(*http.Request) (*http.Response, error) {
	t.Helper()
	return func(*http.Request) (*http.Response, error) {
		data, err := os.Open(file)
		if err != nil {
			t.Fatalf("failed to open JSON response file: %s", err)
		}
		return &http.Response{
			StatusCode: status,
			Body:       data,
			Header:     make(http.Header),
		}, nil
	}
}
