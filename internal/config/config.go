// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"
)

const (
	configEnv = "WEATHERDASHBOARD"

	ProviderOpenWeatherMap = "openweathermap"
	ProviderOpenMeteo      = "open-meteo"

	// DefaultFallbackLat and DefaultFallbackLon point to New York City.
	DefaultFallbackLat = 40.7128
	DefaultFallbackLon = -74.0060

	OutputText   = "text"
	OutputWaybar = "waybar"
	OutputNone   = "none"

	DefaultTerminalTpl = `{{pad (loc "Location") 12}}{{.Location}}
{{pad (loc "Date") 12}}{{.Date}}
{{pad (loc "Now") 12}}{{.Glyph}} {{.Temperature}} {{.Description}} ({{.High}} {{.Low}})
{{range .Hourly}}{{pad .Time 8}}{{end}}
{{range .Hourly}}{{pad (printf "%s %s" (glyph .Icon) .Temp) 8}}{{end}}
{{range .Daily}}{{pad .Day 8}}{{glyph .Icon}} {{pad .High 5}}{{.Low}}
{{end}}{{pad (loc "Sunrise") 12}}{{.Sunrise}}
{{pad (loc "Sunset") 12}}{{.Sunset}}
{{pad (loc "Humidity") 12}}{{.Humidity}}
{{pad (loc "Wind") 12}}{{.Wind}}
{{pad (loc "Feels like") 12}}{{.FeelsLike}}
{{pad (loc "Pressure") 12}}{{.Pressure}}
{{pad (loc "Moon phase") 12}}{{.MoonPhase}}`
	DefaultTextTpl    = "{{.Glyph}} {{.Temperature}}"
	DefaultTooltipTpl = "{{.Location}}\n{{.Date}}\n{{.Description}} {{.High}} {{.Low}}\n" +
		"{{loc \"Sunrise\"}}: {{.Sunrise}}\n{{loc \"Sunset\"}}: {{.Sunset}}\n" +
		"{{loc \"Humidity\"}}: {{.Humidity}}\n{{loc \"Wind\"}}: {{.Wind}}\n" +
		"{{loc \"Feels like\"}}: {{.FeelsLike}}\n{{loc \"Moon phase\"}}: {{.MoonPhase}}"
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units    string     `fig:"units" default:"metric"`
	Locale   string     `fig:"locale"`
	LogLevel slog.Level `fig:"loglevel" default:"0"`

	Weather struct {
		// Allowed values: openweathermap, open-meteo
		Provider string `fig:"provider" default:"openweathermap"`
		APIKey   string `fig:"apikey"`
	} `fig:"weather"`

	Intervals struct {
		DateRefresh time.Duration `fig:"date_refresh" default:"60s"`
	} `fig:"intervals"`

	Output struct {
		// Allowed values: text, waybar, none
		Format string `fig:"format" default:"text"`
	} `fig:"output"`

	Templates struct {
		Terminal string `fig:"terminal"`
		Text     string `fig:"text"`
		Tooltip  string `fig:"tooltip"`
	} `fig:"templates"`

	Server struct {
		Listen string `fig:"listen"`
	} `fig:"server"`

	GeoLocation struct {
		File                   string        `fig:"file"`
		DisableGeoIP           bool          `fig:"disable_geoip"`
		DisableGeolocationFile bool          `fig:"disable_geolocation_file"`
		DisableGPSD            bool          `fig:"disable_gpsd"`
		GPSDHost               string        `fig:"gpsd_host" default:"localhost"`
		GPSDPort               string        `fig:"gpsd_port" default:"2947"`
		ProbeTimeout           time.Duration `fig:"probe_timeout" default:"10s"`
		FallbackLat            *float64      `fig:"fallback_lat"`
		FallbackLon            *float64      `fig:"fallback_lon"`
	} `fig:"geolocation"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if c.Units != "metric" && c.Units != "imperial" {
		return fmt.Errorf("invalid units: %s", c.Units)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	switch c.Weather.Provider {
	case ProviderOpenWeatherMap:
		if c.Weather.APIKey == "" {
			return errors.New("weather.apikey is required for the openweathermap provider")
		}
	case ProviderOpenMeteo:
	default:
		return fmt.Errorf("invalid weather provider: %s", c.Weather.Provider)
	}
	switch c.Output.Format {
	case OutputText, OutputWaybar, OutputNone:
	default:
		return fmt.Errorf("invalid output format: %s", c.Output.Format)
	}
	if c.Intervals.DateRefresh < time.Second {
		return fmt.Errorf("invalid date refresh interval: %s", c.Intervals.DateRefresh)
	}
	if c.GeoLocation.ProbeTimeout <= 0 {
		return fmt.Errorf("invalid geolocation probe timeout: %s", c.GeoLocation.ProbeTimeout)
	}
	if lat, lon := c.Fallback(); lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return fmt.Errorf("invalid fallback coordinate: %f,%f", lat, lon)
	}
	if c.Templates.Terminal == "" {
		c.Templates.Terminal = DefaultTerminalTpl
	}
	if c.Templates.Text == "" {
		c.Templates.Text = DefaultTextTpl
	}
	if c.Templates.Tooltip == "" {
		c.Templates.Tooltip = DefaultTooltipTpl
	}
	if c.GeoLocation.File == "" {
		home, _ := os.UserHomeDir()
		c.GeoLocation.File = filepath.Join(home, ".config", "weather-dashboard", "geolocation")
	}

	return nil
}

// Fallback returns the configured fallback coordinate. Unset values default to New York City. The
// fields are pointers because fig would replace an explicit 0 with a default tag value.
func (c *Config) Fallback() (lat, lon float64) {
	lat, lon = DefaultFallbackLat, DefaultFallbackLon
	if c.GeoLocation.FallbackLat != nil {
		lat = *c.GeoLocation.FallbackLat
	}
	if c.GeoLocation.FallbackLon != nil {
		lon = *c.GeoLocation.FallbackLon
	}
	return lat, lon
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
