// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
	"time"

	"github.com/wneessen/weather-dashboard/internal/logger"
)

const (
	// DefaultTimeout is the default timeout value for the HTTPClient
	DefaultTimeout = time.Second * 10

	// errorBodyLimit caps how much of an error response is read for its message
	errorBodyLimit = 4096
)

var (
	// version is the version of the application (will be set at build time)
	version = "dev"
	// UserAgent is the User-Agent that the HTTP client sends with API requests
	UserAgent = fmt.Sprintf("Mozilla/5.0 (%s; %s) weather-dashboard/%s (+https://github.com/wneessen/weather-dashboard/)",
		runtime.GOOS,
		runtime.GOARCH,
		version,
	)

	ErrNonPointerTarget = errors.New("target must be a non-nil pointer")

	// ErrUnexpectedStatus is returned by Fetch when the API answers with a non-success status code
	ErrUnexpectedStatus = errors.New("unexpected HTTP status code")
)

// Client wraps the stdlib http.Client with the JSON fetch helper used by all API providers
type Client struct {
	*http.Client
	logger *logger.Logger
}

// apiError covers the error bodies of the weather and geolocation APIs: OpenWeatherMap reports a
// "message", Open-Meteo a "reason".
type apiError struct {
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

// New returns a new HTTP client
func New(logger *logger.Logger) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	httpTransport := &http.Transport{TLSClientConfig: tlsConfig}
	httpClient := &http.Client{
		Timeout:   DefaultTimeout,
		Transport: httpTransport,
	}
	return &Client{httpClient, logger}
}

// Fetch performs a HTTP GET request for the given URL with the given timeout and JSON-unmarshals
// the response into target. Every response outside the 2xx range fails with ErrUnexpectedStatus,
// carrying the API error message if the body has one.
func (h *Client) Fetch(ctx context.Context, endpoint string, target any, query url.Values, timeout time.Duration) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrNonPointerTarget
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Prepare URL and query parameters
	reqURL, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		reqURL.RawQuery = query.Encode()
	}

	// Prepare HTTP request
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("failed create new HTTP request with context: %w", err)
	}
	request.Header.Set("User-Agent", UserAgent)
	request.Header.Set("Accept", "application/json")

	// Execute HTTP request
	response, err := h.Do(request)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("failed to perform HTTP request: %w", err)
	}
	if response == nil {
		return errors.New("nil response received")
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			h.logger.Error("failed to close HTTP request body", logger.Err(err))
		}
	}(response.Body)

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return statusError(response)
	}
	if err = json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode JSON: %w", err)
	}
	return nil
}

func statusError(response *http.Response) error {
	var apiErr apiError
	if err := json.NewDecoder(io.LimitReader(response.Body, errorBodyLimit)).Decode(&apiErr); err == nil {
		switch {
		case apiErr.Message != "":
			return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, response.StatusCode, apiErr.Message)
		case apiErr.Reason != "":
			return fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, response.StatusCode, apiErr.Reason)
		}
	}
	return fmt.Errorf("%w: %d", ErrUnexpectedStatus, response.StatusCode)
}
