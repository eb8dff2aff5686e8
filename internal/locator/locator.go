// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/logger"
)

const (
	DefaultProbeTimeout = time.Second * 10
	busKey              = "dashboard"
)

// Fallback is the position used when the geolocation providers do not yield a result (New York City).
var Fallback = geobus.Coordinate{Lat: 40.7128, Lon: -74.0060}

var (
	// ErrUnsupported is returned when no geolocation provider is available on this host.
	ErrUnsupported = errors.New("geolocation is not supported by this host")
	// ErrDenied is returned when none of the providers delivered a position.
	ErrDenied = errors.New("geolocation request denied")
)

// Status is the outcome of a location request.
type Status int

const (
	Granted Status = iota
	Denied
	Unavailable
)

func (s Status) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result of a single Resolve call. For Denied the Coordinate is the fallback and Err holds the cause,
// for Unavailable the Coordinate is empty.
type Result struct {
	Status     Status
	Coordinate geobus.Coordinate
	Err        error
}

// Locator probes the configured geolocation providers once per Resolve call.
type Locator struct {
	logger    *logger.Logger
	providers []geobus.Provider
	timeout   time.Duration
	fallback  geobus.Coordinate
}

type Option func(*Locator)

// WithFallback overrides the coordinate used when the providers do not deliver a position.
func WithFallback(coord geobus.Coordinate) Option {
	return func(l *Locator) {
		l.fallback = coord
	}
}

// WithProbeTimeout sets how long Resolve waits for the first provider result.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(l *Locator) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

func New(log *logger.Logger, providers []geobus.Provider, opts ...Option) (*Locator, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	loc := &Locator{
		logger:    log,
		providers: providers,
		timeout:   DefaultProbeTimeout,
		fallback:  Fallback,
	}
	for _, opt := range opts {
		opt(loc)
	}
	return loc, nil
}

// Resolve runs all providers on a fresh GeoBus until the first position is published. If no provider
// is configured, Resolve returns Unavailable right away. If the probe times out or every provider
// stream ends without a usable position, it returns Denied with the fallback coordinate.
func (l *Locator) Resolve(ctx context.Context) Result {
	if len(l.providers) == 0 {
		return Result{Status: Unavailable, Err: ErrUnsupported}
	}

	bus, err := geobus.New(l.logger)
	if err != nil {
		return l.denied(err)
	}
	sub, unsub := bus.Subscribe(busKey, 1)
	defer unsub()

	probeCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- bus.NewOrchestrator(l.providers).Probe(probeCtx, busKey)
	}()

	select {
	case r := <-sub:
		cancel()
		<-done
		return l.granted(r)
	case err := <-done:
		// The last stream may have published right before it ended
		select {
		case r := <-sub:
			return l.granted(r)
		default:
		}
		return l.denied(fmt.Errorf("%w: %w", ErrDenied, err))
	}
}

func (l *Locator) granted(r geobus.Result) Result {
	l.logger.Debug("geolocation request granted", slog.String("source", r.Source),
		slog.String("coordinate", r.Coordinate().String()))
	return Result{Status: Granted, Coordinate: r.Coordinate()}
}

func (l *Locator) denied(err error) Result {
	return Result{Status: Denied, Coordinate: l.fallback, Err: err}
}
