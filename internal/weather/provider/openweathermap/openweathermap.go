// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	name            = "openweathermap"
	apiBaseURL      = "https://api.openweathermap.org"
	currentEndpoint = "/data/2.5/weather"
	oneCallEndpoint = "/data/3.0/onecall"
	apiTimeout      = time.Second * 10
)

var ErrMissingAPIKey = errors.New("OpenWeatherMap API key is required")

type OpenWeatherMap struct {
	apiKey  string
	baseURL string
	units   string
	lang    language.Tag
	http    *http.Client
}

type condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Name     string      `json:"name"`
	Timezone int         `json:"timezone"`
	Weather  []condition `json:"weather"`
	Main     struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
}

type oneCallResponse struct {
	Timezone       string `json:"timezone"`
	TimezoneOffset int    `json:"timezone_offset"`
	Hourly         []struct {
		Dt      int64       `json:"dt"`
		Temp    float64     `json:"temp"`
		Weather []condition `json:"weather"`
	} `json:"hourly"`
	Daily []struct {
		Dt   int64 `json:"dt"`
		Temp struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"temp"`
		Weather []condition `json:"weather"`
	} `json:"daily"`
}

func New(http *http.Client, apiKey, units string, lang language.Tag) (*OpenWeatherMap, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if units == "" {
		units = weather.UnitsMetric
	}
	return &OpenWeatherMap{
		apiKey:  apiKey,
		baseURL: apiBaseURL,
		units:   units,
		lang:    lang,
		http:    http,
	}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

// GetWeather requests the current conditions and the forecast concurrently and merges them into a
// Snapshot. If either request fails, no Snapshot is returned.
func (o *OpenWeatherMap) GetWeather(ctx context.Context, coords geobus.Coordinate) (*weather.Snapshot, error) {
	current := new(currentResponse)
	forecast := new(oneCallResponse)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		query := o.query(coords)
		if err := o.http.Fetch(groupCtx, o.baseURL+currentEndpoint, current, query, apiTimeout); err != nil {
			return fmt.Errorf("failed to retrieve current weather from OpenWeatherMap API: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		query := o.query(coords)
		query.Set("exclude", "minutely,alerts")
		if err := o.http.Fetch(groupCtx, o.baseURL+oneCallEndpoint, forecast, query, apiTimeout); err != nil {
			return fmt.Errorf("failed to retrieve forecast from OpenWeatherMap API: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return o.snapshot(coords, current, forecast), nil
}

func (o *OpenWeatherMap) query(coords geobus.Coordinate) url.Values {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", coords.Lat))
	query.Set("lon", fmt.Sprintf("%f", coords.Lon))
	query.Set("appid", o.apiKey)
	query.Set("units", o.units)
	if base, _ := o.lang.Base(); base.String() != "und" {
		query.Set("lang", base.String())
	}
	return query
}

func (o *OpenWeatherMap) snapshot(coords geobus.Coordinate, current *currentResponse, forecast *oneCallResponse) *weather.Snapshot {
	icon, desc := firstCondition(current.Weather)
	snap := &weather.Snapshot{
		Provider:       name,
		GeneratedAt:    time.Now(),
		Coordinates:    coords,
		Units:          o.units,
		Location:       current.Name,
		CountryCode:    current.Sys.Country,
		Temperature:    current.Main.Temp,
		FeelsLike:      current.Main.FeelsLike,
		Humidity:       current.Main.Humidity,
		WindSpeed:      current.Wind.Speed,
		Pressure:       current.Main.Pressure,
		IconCode:       icon,
		Description:    desc,
		Sunrise:        current.Sys.Sunrise,
		Sunset:         current.Sys.Sunset,
		TimezoneOffset: forecast.TimezoneOffset,
		Hourly:         make([]weather.HourlyPoint, 0, len(forecast.Hourly)),
		Daily:          make([]weather.DailyPoint, 0, len(forecast.Daily)),
	}
	for _, hour := range forecast.Hourly {
		icon, _ = firstCondition(hour.Weather)
		snap.Hourly = append(snap.Hourly, weather.HourlyPoint{
			Time:        hour.Dt,
			Temperature: hour.Temp,
			IconCode:    icon,
		})
	}
	for _, day := range forecast.Daily {
		icon, _ = firstCondition(day.Weather)
		snap.Daily = append(snap.Daily, weather.DailyPoint{
			Time:     day.Dt,
			Max:      day.Temp.Max,
			Min:      day.Temp.Min,
			IconCode: icon,
		})
	}
	return snap
}

func firstCondition(conditions []condition) (icon, description string) {
	if len(conditions) == 0 {
		return "", ""
	}
	return conditions[0].Icon, conditions[0].Description
}
