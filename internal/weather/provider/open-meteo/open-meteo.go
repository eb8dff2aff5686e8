// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"golang.org/x/sync/errgroup"

	"github.com/wneessen/weather-dashboard/internal/format"
	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/geocode"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	name         = "open-meteo"
	apiEndpoint  = "https://api.open-meteo.com/v1/forecast"
	apiTimeout   = time.Second * 10
	forecastDays = 8
)

var (
	currentFields = []string{
		"temperature_2m", "apparent_temperature", "weather_code", "wind_speed_10m", "is_day",
		"relative_humidity_2m", "pressure_msl",
	}
	hourlyFields = []string{"temperature_2m", "weather_code", "is_day"}
	dailyFields  = []string{"weather_code", "temperature_2m_max", "temperature_2m_min"}
)

type OpenMeteo struct {
	units    string
	endpoint string
	http     *http.Client
	geocoder geocode.Geocoder
}

type resBool struct {
	bool
}

type response struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	UTCOffsetSeconds int     `json:"utc_offset_seconds"`
	Timezone         string  `json:"timezone"`
	Current          struct {
		Time                int64   `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		WeatherCode         int     `json:"weather_code"`
		WindSpeed           float64 `json:"wind_speed_10m"`
		IsDay               resBool `json:"is_day"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		PressureMSL         float64 `json:"pressure_msl"`
	} `json:"current"`
	Hourly struct {
		Time        []int64   `json:"time"`
		Temperature []float64 `json:"temperature_2m"`
		WeatherCode []int     `json:"weather_code"`
		IsDay       []resBool `json:"is_day"`
	} `json:"hourly"`
	Daily struct {
		Time           []int64   `json:"time"`
		WeatherCode    []int     `json:"weather_code"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

func New(http *http.Client, geocoder geocode.Geocoder, units string) (*OpenMeteo, error) {
	if http == nil {
		return nil, errors.New("http client is required")
	}
	if geocoder == nil {
		return nil, errors.New("geocoder is required")
	}
	if units == "" {
		units = weather.UnitsMetric
	}

	return &OpenMeteo{units: units, endpoint: apiEndpoint, http: http, geocoder: geocoder}, nil
}

func (o *OpenMeteo) Name() string {
	return name
}

// GetWeather requests the forecast and the reverse geocoded place name concurrently and merges
// them into a Snapshot. If either request fails, no Snapshot is returned.
func (o *OpenMeteo) GetWeather(ctx context.Context, coords geobus.Coordinate) (*weather.Snapshot, error) {
	res := new(response)
	var address geocode.Address

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := o.http.Fetch(groupCtx, o.endpoint, res, o.query(coords), apiTimeout); err != nil {
			return fmt.Errorf("failed to retrieve weather data from Open-Meteo API: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		if address, err = o.geocoder.Reverse(groupCtx, coords); err != nil {
			return fmt.Errorf("failed to resolve location name: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return o.snapshot(coords, address, res)
}

func (o *OpenMeteo) query(coords geobus.Coordinate) url.Values {
	query := url.Values{}
	query.Set("latitude", fmt.Sprintf("%f", coords.Lat))
	query.Set("longitude", fmt.Sprintf("%f", coords.Lon))
	query.Set("current", strings.Join(currentFields, ","))
	query.Set("hourly", strings.Join(hourlyFields, ","))
	query.Set("daily", strings.Join(dailyFields, ","))
	query.Set("timezone", "auto")
	query.Set("timeformat", "unixtime")
	query.Set("forecast_days", fmt.Sprintf("%d", forecastDays))
	query.Set("wind_speed_unit", "ms")
	if strings.EqualFold(o.units, weather.UnitsImperial) {
		query.Set("temperature_unit", "fahrenheit")
		query.Set("wind_speed_unit", "mph")
		query.Set("precipitation_unit", "inch")
	}
	return query
}

func (o *OpenMeteo) snapshot(coords geobus.Coordinate, address geocode.Address, res *response) (*weather.Snapshot, error) {
	hourly, daily := res.Hourly, res.Daily
	if len(hourly.Temperature) != len(hourly.Time) || len(hourly.WeatherCode) != len(hourly.Time) ||
		len(hourly.IsDay) != len(hourly.Time) {
		return nil, errors.New("Open-Meteo API returned inconsistent hourly data")
	}
	if len(daily.TemperatureMax) != len(daily.Time) || len(daily.TemperatureMin) != len(daily.Time) ||
		len(daily.WeatherCode) != len(daily.Time) {
		return nil, errors.New("Open-Meteo API returned inconsistent daily data")
	}

	now := format.LocalTime(res.Current.Time, res.UTCOffsetSeconds)
	rise, set := sunrise.SunriseSunset(coords.Lat, coords.Lon, now.Year(), now.Month(), now.Day())

	snap := &weather.Snapshot{
		Provider:       name,
		GeneratedAt:    time.Now(),
		Coordinates:    coords,
		Units:          o.units,
		Location:       address.City,
		CountryCode:    address.CountryCode,
		Temperature:    res.Current.Temperature,
		FeelsLike:      res.Current.ApparentTemperature,
		Humidity:       int(math.Round(res.Current.RelativeHumidity)),
		WindSpeed:      res.Current.WindSpeed,
		Pressure:       int(math.Round(res.Current.PressureMSL)),
		IconCode:       IconCode(res.Current.WeatherCode, res.Current.IsDay.bool),
		Description:    WMOWeatherCodes[res.Current.WeatherCode],
		Sunrise:        unixOrZero(rise),
		Sunset:         unixOrZero(set),
		TimezoneOffset: res.UTCOffsetSeconds,
		Hourly:         make([]weather.HourlyPoint, 0, len(hourly.Time)),
		Daily:          make([]weather.DailyPoint, 0, len(daily.Time)),
	}

	// Open-Meteo starts the hourly series at midnight, the dashboard starts at the current hour
	for i, ts := range hourly.Time {
		if ts+3600 <= res.Current.Time {
			continue
		}
		snap.Hourly = append(snap.Hourly, weather.HourlyPoint{
			Time:        ts,
			Temperature: hourly.Temperature[i],
			IconCode:    IconCode(hourly.WeatherCode[i], hourly.IsDay[i].bool),
		})
	}
	for i, ts := range daily.Time {
		snap.Daily = append(snap.Daily, weather.DailyPoint{
			Time:     ts,
			Max:      daily.TemperatureMax[i],
			Min:      daily.TemperatureMin[i],
			IconCode: IconCode(daily.WeatherCode[i], true),
		})
	}

	return snap, nil
}

// unixOrZero returns 0 for the zero time go-sunrise reports during polar day or night.
func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func (r *resBool) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("empty bool")
	}
	if b[0] == '0' {
		return nil
	}
	r.bool = true
	return nil
}
