// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geoip

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/http"
)

const (
	apiEndpoint   = "https://reallyfreegeoip.org/json/"
	lookupTimeout = time.Second * 5
	name          = "geoip"
)

// GeolocationGeoIPProvider estimates the position from the public IP address of the host.
type GeolocationGeoIPProvider struct {
	name     string
	http     *http.Client
	ttl      time.Duration
	locateFn func(ctx context.Context) (geobus.Coordinate, error)
}

type APIResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	RegionCode  string  `json:"region_code,omitempty"`
	Region      string  `json:"region_name,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func NewGeolocationGeoIPProvider(http *http.Client) (*GeolocationGeoIPProvider, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	provider := &GeolocationGeoIPProvider{
		name: name,
		http: http,
		ttl:  time.Hour,
	}
	provider.locateFn = provider.locate
	return provider, nil
}

func (p *GeolocationGeoIPProvider) Name() string {
	return p.name
}

// LookupStream performs a single GeoIP lookup and closes the stream afterwards. A failed lookup
// closes the stream without a result.
func (p *GeolocationGeoIPProvider) LookupStream(ctx context.Context, key string) <-chan geobus.Result {
	out := make(chan geobus.Result)
	go func() {
		defer close(out)
		coord, err := p.locateFn(ctx)
		if err != nil {
			return
		}
		select {
		case <-ctx.Done():
		case out <- p.createResult(key, coord):
		}
	}()
	return out
}

func (p *GeolocationGeoIPProvider) createResult(key string, coord geobus.Coordinate) geobus.Result {
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

func (p *GeolocationGeoIPProvider) locate(ctx context.Context) (geobus.Coordinate, error) {
	result := new(APIResult)
	if err := p.http.Fetch(ctx, apiEndpoint, result, nil, lookupTimeout); err != nil {
		return geobus.Coordinate{}, fmt.Errorf("failed to get geolocation data from GeoIP API: %w", err)
	}
	if result.Latitude == 0 && result.Longitude == 0 {
		return geobus.Coordinate{}, errors.New("GeoIP API returned no coordinates")
	}

	acc := float64(geobus.AccuracyUnknown)
	switch {
	case result.ZipCode != "":
		acc = geobus.AccuracyZip
	case result.City != "":
		acc = geobus.AccuracyCity
	case result.RegionCode != "":
		acc = geobus.AccuracyRegion
	case result.CountryCode != "":
		acc = geobus.AccuracyCountry
	}

	return geobus.Coordinate{
		Lat: geobus.Truncate(result.Latitude, geobus.TruncPrecision),
		Lon: geobus.Truncate(result.Longitude, geobus.TruncPrecision),
		Acc: acc,
	}, nil
}
