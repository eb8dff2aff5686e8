// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geolocation_file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geobus"
)

const (
	name = "geolocation_file"

	// Accuracy is the accuracy we assign to a position read from the geolocation file. The user wrote
	// it down, so we consider it the most accurate position available.
	Accuracy = 5
)

var ErrNoCoordinates = errors.New("no valid coordinates found in geolocation file")

// GeolocationFileProvider reads a fixed position from a file. Every non-comment line of the form
// "<lat>,<lon>" is a candidate; the first one that parses and lies within the valid coordinate
// range wins.
type GeolocationFileProvider struct {
	name     string
	path     string
	ttl      time.Duration
	locateFn func() (lat, lon float64, err error)
}

// NewGeolocationFileProvider initializes a GeolocationFileProvider with a file path and the default
// TTL.
func NewGeolocationFileProvider(path string) *GeolocationFileProvider {
	provider := &GeolocationFileProvider{
		name: name,
		path: path,
		ttl:  time.Hour * 1,
	}
	provider.locateFn = provider.readFile
	return provider
}

// Name returns the name of the GeolocationFileProvider instance.
func (p *GeolocationFileProvider) Name() string {
	return p.name
}

// LookupStream reads the geolocation file once, emits its position if it holds a valid one and
// closes the stream.
func (p *GeolocationFileProvider) LookupStream(ctx context.Context, key string) <-chan geobus.Result {
	out := make(chan geobus.Result)
	go func() {
		defer close(out)
		lat, lon, err := p.locateFn()
		if err != nil {
			return
		}
		coord := geobus.Coordinate{Lat: lat, Lon: lon, Acc: Accuracy}
		select {
		case <-ctx.Done():
		case out <- p.createResult(key, coord):
		}
	}()
	return out
}

func (p *GeolocationFileProvider) createResult(key string, coord geobus.Coordinate) geobus.Result {
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

func (p *GeolocationFileProvider) readFile() (lat, lon float64, err error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read geolocation file %q: %w", p.path, err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		coord, ok := parseLine(line)
		if !ok {
			continue
		}
		return coord.Lat, coord.Lon, nil
	}
	return 0, 0, ErrNoCoordinates
}

func parseLine(line string) (geobus.Coordinate, bool) {
	latStr, lonStr, found := strings.Cut(line, ",")
	if !found {
		return geobus.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return geobus.Coordinate{}, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return geobus.Coordinate{}, false
	}
	coord := geobus.Coordinate{Lat: lat, Lon: lon}
	return coord, coord.Valid()
}
