// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/geobus/provider/geoip"
	"github.com/wneessen/weather-dashboard/internal/geobus/provider/geolocation_file"
	"github.com/wneessen/weather-dashboard/internal/geobus/provider/gpsd"
	nominatim "github.com/wneessen/weather-dashboard/internal/geocode/provider/osm-nominatim"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/weather"
	openmeteo "github.com/wneessen/weather-dashboard/internal/weather/provider/open-meteo"
	"github.com/wneessen/weather-dashboard/internal/weather/provider/openweathermap"
)

// selectGeobusProviders returns the enabled geolocation providers. An empty list is not an error,
// the locator reports it as unsupported.
func selectGeobusProviders(conf *config.Config, httpClient *http.Client, log *logger.Logger) ([]geobus.Provider, error) {
	var provider []geobus.Provider

	if !conf.GeoLocation.DisableGeolocationFile {
		provider = append(provider, geolocation_file.NewGeolocationFileProvider(conf.GeoLocation.File))
	}

	if !conf.GeoLocation.DisableGPSD {
		gps, err := gpsd.NewGeolocationGPSDProvider(conf.GeoLocation.GPSDHost, conf.GeoLocation.GPSDPort, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create GPSD provider: %w", err)
		}
		provider = append(provider, gps)
	}

	if !conf.GeoLocation.DisableGeoIP {
		gip, err := geoip.NewGeolocationGeoIPProvider(httpClient)
		if err != nil {
			return nil, fmt.Errorf("failed to create GeoIP provider: %w", err)
		}
		provider = append(provider, gip)
	}

	return provider, nil
}

func selectWeatherProvider(conf *config.Config, httpClient *http.Client, lang language.Tag) (provider weather.Provider, err error) {
	switch strings.ToLower(conf.Weather.Provider) {
	case config.ProviderOpenWeatherMap:
		provider, err = openweathermap.New(httpClient, conf.Weather.APIKey, conf.Units, lang)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenWeatherMap weather provider: %w", err)
		}
	case config.ProviderOpenMeteo:
		geocoder, err := nominatim.New(httpClient, lang)
		if err != nil {
			return nil, fmt.Errorf("failed to create geocoder: %w", err)
		}
		provider, err = openmeteo.New(httpClient, geocoder, conf.Units)
		if err != nil {
			return nil, fmt.Errorf("failed to create Open-Meteo weather provider: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported weather provider: %s", conf.Weather.Provider)
	}
	return provider, nil
}
