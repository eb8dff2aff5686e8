// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"strings"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geobus"
)

const (
	UnitsMetric   = "metric"
	UnitsImperial = "imperial"
)

// Provider is implemented by each weather API backend.
type Provider interface {
	Name() string
	GetWeather(ctx context.Context, coords geobus.Coordinate) (*Snapshot, error)
}

// Snapshot is the merged current and forecast weather for one fetch. It is not modified after
// the provider returned it.
type Snapshot struct {
	Provider    string
	GeneratedAt time.Time
	Coordinates geobus.Coordinate
	Units       string

	Location    string
	CountryCode string

	Temperature float64
	FeelsLike   float64
	Humidity    int
	// WindSpeed is in m/s for metric and mph for imperial units
	WindSpeed   float64
	Pressure    int
	IconCode    string
	Description string

	// Sunrise and Sunset are UNIX timestamps in seconds, TimezoneOffset is the offset of the
	// location to UTC in seconds.
	Sunrise        int64
	Sunset         int64
	TimezoneOffset int

	Hourly []HourlyPoint
	Daily  []DailyPoint
}

type HourlyPoint struct {
	Time        int64
	Temperature float64
	IconCode    string
}

type DailyPoint struct {
	Time     int64
	Max      float64
	Min      float64
	IconCode string
}

// IsImperial reports whether the snapshot values are in imperial units.
func (s *Snapshot) IsImperial() bool {
	return strings.EqualFold(s.Units, UnitsImperial)
}
