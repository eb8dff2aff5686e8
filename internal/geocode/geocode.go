// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"

	"github.com/wneessen/weather-dashboard/internal/geobus"
)

// Address is the place a coordinate resolves to. CountryCode is the upper case ISO 3166-1
// alpha-2 code.
type Address struct {
	City        string
	CountryCode string
}

// Geocoder turns a coordinate into an Address.
type Geocoder interface {
	Name() string
	Reverse(ctx context.Context, coords geobus.Coordinate) (Address, error)
}
