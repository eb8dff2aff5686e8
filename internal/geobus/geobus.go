// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geobus

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/wneessen/weather-dashboard/internal/logger"
)

const accuracyEpsilon = 1e-6

const (
	AccuracyCountry = 300000
	AccuracyRegion  = 100000
	AccuracyCity    = 15000
	AccuracyZip     = 3000
	AccuracyUnknown = 1000000
	TruncPrecision  = 4
)

// ErrNoLogger is returned by New if no logger was given.
var ErrNoLogger = errors.New("logger is required")

// Provider defines an interface for geolocation service providers.
// It supports retrieving streamed results for a given key.
type Provider interface {
	Name() string
	LookupStream(ctx context.Context, key string) <-chan Result
}

// GeoBus coordinates the publishing and subscribing of geolocation results between providers and consumers.
type GeoBus struct {
	mu          sync.Mutex
	logger      *logger.Logger
	best        map[string]Result
	subscribers map[string]map[chan Result]struct{}
}

// Result represents a geolocation result with associated metadata.
type Result struct {
	Key            string
	Lat, Lon       float64
	AccuracyMeters float64
	Source         string
	At             time.Time
	TTL            time.Duration
}

// Coordinate returns the position of the Result.
func (r Result) Coordinate() Coordinate {
	return Coordinate{Lat: r.Lat, Lon: r.Lon, Acc: r.AccuracyMeters}
}

// BetterThan compares two Result objects to determine if the current instance is better than the provided one.
// A newer result only wins if it is more accurate, with a small tolerance for precision.
func (r Result) BetterThan(prev Result) bool {
	if prev.Key == "" {
		return true
	}
	if r.At.Before(prev.At) {
		return false
	}
	return r.AccuracyMeters < prev.AccuracyMeters-accuracyEpsilon
}

// IsExpired checks if the Result has exceeded its time-to-live (TTL) based on the current time and the timestamp.
func (r Result) IsExpired() bool {
	return r.TTL > 0 && time.Since(r.At) > r.TTL
}

// New initializes and returns a new instance of GeoBus to handle geolocation result coordination.
func New(log *logger.Logger) (*GeoBus, error) {
	if log == nil {
		return nil, ErrNoLogger
	}
	return &GeoBus{
		logger:      log,
		best:        make(map[string]Result),
		subscribers: make(map[string]map[chan Result]struct{}),
	}, nil
}

// NewOrchestrator returns an Orchestrator that publishes the results of the given providers to the bus.
func (b *GeoBus) NewOrchestrator(provider []Provider) *Orchestrator {
	return &Orchestrator{
		Bus:       b,
		Providers: provider,
	}
}

// Subscribe adds a subscriber for updates associated with the given key and buffer size, returning a result
// channel and an unsubscribe function.
func (b *GeoBus) Subscribe(key string, size int) (<-chan Result, func()) {
	resultChan := make(chan Result, size)
	b.mu.Lock()
	if _, ok := b.subscribers[key]; !ok {
		b.subscribers[key] = make(map[chan Result]struct{})
	}

	b.subscribers[key][resultChan] = struct{}{}
	if best, ok := b.best[key]; ok && !best.IsExpired() && size > 0 {
		resultChan <- best
	}
	b.mu.Unlock()

	unsub := func() {
		b.mu.Lock()
		if subs, ok := b.subscribers[key]; ok {
			delete(subs, resultChan)
			if len(subs) == 0 {
				delete(b.subscribers, key)
			}
		}
		b.mu.Unlock()
		close(resultChan)
	}

	return resultChan, unsub
}

// Publish hands a result to the bus. Results without accuracy information or with coordinates
// outside the valid range are dropped.
func (b *GeoBus) Publish(r Result) {
	if r.AccuracyMeters == 0 || !r.Coordinate().Valid() {
		b.logger.Debug("dropping unusable geolocation result", slog.String("source", r.Source))
		return
	}
	if r.At.IsZero() {
		r.At = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	prev, have := b.best[r.Key]

	// Update/broadcast the result if it's better than the previous one, expired or if the coordinate has
	// changed significantly
	if !have || prev.IsExpired() || r.BetterThan(prev) && r.Coordinate().PosHasSignificantChange(prev.Coordinate()) {
		b.best[r.Key] = r
		b.broadcastResult(r)
		return
	}

	// Refresh the TTL if the source has not changed
	if prev.Source == r.Source {
		prev.At = r.At
		b.best[r.Key] = prev
	}
}

func (b *GeoBus) broadcastResult(r Result) {
	subs, ok := b.subscribers[r.Key]
	if !ok {
		return
	}
	for ch := range subs {
		select {
		case ch <- r:
		default:
		}
	}
}

// Truncate cuts x down to the given number of decimal places.
func Truncate(x float64, precision int) float64 {
	p := math.Pow(10, float64(precision))
	return math.Trunc(x*p) / p
}
