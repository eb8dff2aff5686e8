// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/geocode"
	"github.com/wneessen/weather-dashboard/internal/http"
)

const (
	APIReverseEndpoint = "https://nominatim.openstreetmap.org/reverse"
	APITimeout         = time.Second * 10
	name               = "osm-nominatim"
)

type Nominatim struct {
	http     *http.Client
	lang     language.Tag
	endpoint string
}

type ReverseResult struct {
	Address Address `json:"address"`
	Error   string  `json:"error"`
}

type Address struct {
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	CountryCode string `json:"country_code"`
}

func New(client *http.Client, lang language.Tag) (*Nominatim, error) {
	if client == nil {
		return nil, errors.New("http client is required")
	}
	return &Nominatim{
		lang:     lang,
		http:     client,
		endpoint: APIReverseEndpoint,
	}, nil
}

func (n *Nominatim) Name() string {
	return name
}

func (n *Nominatim) Reverse(ctx context.Context, coords geobus.Coordinate) (geocode.Address, error) {
	var result ReverseResult

	query := url.Values{}
	query.Set("format", "jsonv2")
	query.Set("lat", fmt.Sprintf("%f", coords.Lat))
	query.Set("lon", fmt.Sprintf("%f", coords.Lon))
	query.Set("accept-language", n.lang.String())

	if err := n.http.Fetch(ctx, n.endpoint, &result, query, APITimeout); err != nil {
		return geocode.Address{}, fmt.Errorf("failed to fetch reverse address details from Nominatim API: %w", err)
	}
	if result.Error != "" {
		return geocode.Address{}, fmt.Errorf("Nominatim API returned an error: %s", result.Error)
	}

	address := geocode.Address{
		City:        result.Address.City,
		CountryCode: strings.ToUpper(result.Address.CountryCode),
	}
	if address.City == "" {
		address.City = result.Address.Town
	}
	if address.City == "" {
		address.City = result.Address.Village
	}

	return address, nil
}
