// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package gpsd

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/logger"
)

const (
	DefaultHost = "localhost"
	DefaultPort = "2947"
	name        = "gpsd"

	fallbackAccuracy3DFix = 10 // ~10 m typical consumer GPS in open sky
	fallbackAccuracy2DFix = 25

	dialTimeout = time.Second * 5
)

// session is the subset of a gpsd session the provider uses.
type session interface {
	AddFilter(class string, f gpsd.Filter)
	Watch() chan bool
	Close() error
}

// GeolocationGPSDProvider reads TPV reports of a local gpsd daemon.
type GeolocationGPSDProvider struct {
	name   string
	addr   string
	logger *logger.Logger
	ttl    time.Duration
	dialFn func(addr string) (session, error)
}

func NewGeolocationGPSDProvider(host, port string, log *logger.Logger) (*GeolocationGPSDProvider, error) {
	if log == nil {
		return nil, errors.New("logger is required")
	}
	if host == "" {
		host = DefaultHost
	}
	if port == "" {
		port = DefaultPort
	}
	return &GeolocationGPSDProvider{
		name:   name,
		addr:   net.JoinHostPort(host, port),
		logger: log,
		ttl:    time.Minute * 2,
		dialFn: func(addr string) (session, error) {
			return gpsd.DialTimeout(addr, dialTimeout)
		},
	}, nil
}

func (p *GeolocationGPSDProvider) Name() string {
	return p.name
}

// LookupStream connects to gpsd once and emits the first TPV report with a usable fix. The stream
// closes after that fix, if the connection fails or if gpsd ends the session without one.
func (p *GeolocationGPSDProvider) LookupStream(ctx context.Context, key string) <-chan geobus.Result {
	out := make(chan geobus.Result)

	go func() {
		defer close(out)

		sess, err := p.dialFn(p.addr)
		if err != nil {
			p.logger.Debug("failed to connect to gpsd", slog.String("addr", p.addr), logger.Err(err))
			return
		}

		fixes := make(chan geobus.Coordinate, 1)
		sess.AddFilter("TPV", func(r interface{}) {
			coord, ok := coordinateFromReport(r)
			if !ok {
				return
			}
			select {
			case fixes <- coord:
			default:
			}
		})

		watchDone := sess.Watch()
		coord, found, ended := p.awaitFix(ctx, fixes, watchDone)
		if err = sess.Close(); err != nil {
			p.logger.Debug("failed to close gpsd session", logger.Err(err))
		}
		if !ended {
			<-watchDone
		}
		if !found {
			return
		}

		select {
		case <-ctx.Done():
		case out <- p.createResult(key, coord):
		}
	}()

	return out
}

// awaitFix blocks until the first fix arrives, the session ends or ctx is done. ended reports
// whether watchDone was consumed.
func (p *GeolocationGPSDProvider) awaitFix(ctx context.Context, fixes <-chan geobus.Coordinate,
	watchDone <-chan bool,
) (coord geobus.Coordinate, found, ended bool) {
	select {
	case <-ctx.Done():
		return coord, false, false
	case coord = <-fixes:
		return coord, true, false
	case <-watchDone:
		select {
		case coord = <-fixes:
			return coord, true, true
		default:
			p.logger.Debug("gpsd session ended without a fix", slog.String("addr", p.addr))
			return coord, false, true
		}
	}
}

func (p *GeolocationGPSDProvider) createResult(key string, coord geobus.Coordinate) geobus.Result {
	return geobus.Result{
		Key:            key,
		Lat:            coord.Lat,
		Lon:            coord.Lon,
		AccuracyMeters: coord.Acc,
		Source:         p.name,
		At:             time.Now(),
		TTL:            p.ttl,
	}
}

// coordinateFromReport turns a TPV report with at least a 2D fix into a Coordinate. The accuracy is
// taken from the larger of the reported longitude/latitude errors, falling back to a typical value
// for the fix mode.
func coordinateFromReport(r interface{}) (geobus.Coordinate, bool) {
	tpv, ok := r.(*gpsd.TPVReport)
	if !ok || tpv == nil || tpv.Mode < gpsd.Mode2D {
		return geobus.Coordinate{}, false
	}

	acc := max(tpv.Epx, tpv.Epy)
	if acc <= 0 {
		acc = fallbackAccuracy2DFix
		if tpv.Mode >= gpsd.Mode3D {
			acc = fallbackAccuracy3DFix
		}
	}

	coord := geobus.Coordinate{
		Lat: geobus.Truncate(tpv.Lat, geobus.TruncPrecision),
		Lon: geobus.Truncate(tpv.Lon, geobus.TruncPrecision),
		Acc: acc,
	}
	return coord, coord.Valid()
}
