// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vorlif/humanize"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weather-dashboard/internal/format"
	"github.com/wneessen/weather-dashboard/internal/locator"
	"github.com/wneessen/weather-dashboard/internal/surface"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	// HourlyPoints is the number of hourly points the hourly list is sampled from
	HourlyPoints = 24
	// HourlyStride is the distance between two sampled hourly points
	HourlyStride = 3
	// DailyItems is the number of days shown in the daily list
	DailyItems = 7

	dateLayout = "l, M j, Y"
)

const (
	MsgUnsupported localize.MsgID = "Geolocation is not supported by this host."
	MsgFetchFailed localize.MsgID = "Unable to fetch weather data"
	MsgIncomplete  localize.MsgID = "Incomplete weather data"
	MsgToday       localize.MsgID = "Today"
)

// ErrIncompleteForecast is returned by Render if the snapshot carries fewer hourly or daily points
// than the lists need.
var ErrIncompleteForecast = errors.New("incomplete forecast data")

// MoonPhaseIcon maps moon phase names to their emoji representations.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

var moonPhaseNames = map[string]localize.MsgID{
	"New Moon":        "New moon",
	"Waxing Crescent": "Waxing crescent",
	"First Quarter":   "First quarter",
	"Waxing Gibbous":  "Waxing gibbous",
	"Full Moon":       "Full moon",
	"Waning Gibbous":  "Waning gibbous",
	"Third Quarter":   "Third quarter",
	"Waning Crescent": "Waning crescent",
}

// Surface is the display the Renderer commits its updates to.
type Surface interface {
	Apply(u surface.Update)
}

type Renderer struct {
	surface   Surface
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	formatter *format.Formatter
}

func New(s Surface, loc *spreak.Localizer, hum *humanize.Humanizer) (*Renderer, error) {
	if s == nil {
		return nil, errors.New("display surface is required")
	}
	if loc == nil {
		return nil, errors.New("localizer is required")
	}
	fmtr, err := format.NewFormatter(hum)
	if err != nil {
		return nil, err
	}
	return &Renderer{surface: s, localizer: loc, humanizer: hum, formatter: fmtr}, nil
}

// RenderDate writes the localized long date of t to the date region.
func (r *Renderer) RenderDate(t time.Time) {
	r.setText(surface.Date, r.humanizer.FormatTime(t, dateLayout))
}

// Render writes the snapshot to the surface. If err is set, only the location region is changed to
// a message describing the failure. A snapshot with too few forecast points is reported the same
// way and ErrIncompleteForecast is returned.
func (r *Renderer) Render(snap *weather.Snapshot, err error) error {
	switch {
	case errors.Is(err, locator.ErrUnsupported):
		r.setText(surface.Location, r.localizer.Get(MsgUnsupported))
		return nil
	case err != nil, snap == nil:
		r.setText(surface.Location, r.localizer.Get(MsgFetchFailed))
		return nil
	case len(snap.Hourly) < HourlyPoints || len(snap.Daily) < DailyItems:
		r.setText(surface.Location, r.localizer.Get(MsgIncomplete))
		return fmt.Errorf("%w: got %d hourly and %d daily points, need %d and %d", ErrIncompleteForecast,
			len(snap.Hourly), len(snap.Daily), HourlyPoints, DailyItems)
	}

	offset := snap.TimezoneOffset
	update := surface.Update{
		Regions: map[surface.Region]string{
			surface.Location:    location(snap),
			surface.Icon:        string(format.IconFor(snap.IconCode)),
			surface.Temperature: degrees(snap.Temperature),
			surface.Description: r.localizer.Get(snap.Description),
			surface.High:        "H:" + degrees(snap.Daily[0].Max),
			surface.Low:         "L:" + degrees(snap.Daily[0].Min),
			surface.Sunrise:     r.clockTime(snap.Sunrise, offset),
			surface.Sunset:      r.clockTime(snap.Sunset, offset),
			surface.Humidity:    fmt.Sprintf("%d%%", snap.Humidity),
			surface.Wind:        wind(snap),
			surface.FeelsLike:   degrees(snap.FeelsLike),
			surface.Pressure:    fmt.Sprintf("%d hPa", snap.Pressure),
			surface.MoonPhase:   r.moonPhase(snap.GeneratedAt),
		},
		Hourly: make([]surface.HourlyItem, 0, HourlyPoints/HourlyStride),
		Daily:  make([]surface.DailyItem, 0, DailyItems),
	}

	for i := 0; i < HourlyPoints; i += HourlyStride {
		point := snap.Hourly[i]
		update.Hourly = append(update.Hourly, surface.HourlyItem{
			Time: r.formatter.FormatHourLabel(point.Time, offset),
			Icon: format.IconFor(point.IconCode),
			Temp: degrees(point.Temperature),
		})
	}

	for i, point := range snap.Daily[:DailyItems] {
		day := r.formatter.FormatDayLabel(point.Time, offset)
		if i == 0 {
			day = r.localizer.Get(MsgToday)
		}
		update.Daily = append(update.Daily, surface.DailyItem{
			Day:  day,
			Icon: format.IconFor(point.IconCode),
			High: degrees(point.Max),
			Low:  degrees(point.Min),
		})
	}

	r.surface.Apply(update)
	return nil
}

func (r *Renderer) setText(region surface.Region, text string) {
	r.surface.Apply(surface.Update{Regions: map[surface.Region]string{region: text}})
}

func (r *Renderer) moonPhase(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	phase := moonphase.New(t).PhaseName()
	name := phase
	if msg, ok := moonPhaseNames[phase]; ok {
		name = r.localizer.Get(msg)
	}
	if icon, ok := MoonPhaseIcon[phase]; ok {
		return icon + " " + name
	}
	return name
}

func location(snap *weather.Snapshot) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{snap.Location, snap.CountryCode} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

func degrees(v float64) string {
	return fmt.Sprintf("%d°", format.Round(v))
}

// clockTime leaves the region on its placeholder if the API did not report a time, as happens
// during polar day and night.
func (r *Renderer) clockTime(ts int64, offset int) string {
	if ts == 0 {
		return surface.Placeholder
	}
	return r.formatter.FormatClockTime(ts, offset)
}

func wind(snap *weather.Snapshot) string {
	if snap.IsImperial() {
		return fmt.Sprintf("%d mph", format.Round(snap.WindSpeed))
	}
	return fmt.Sprintf("%d km/h", format.WindKMH(snap.WindSpeed))
}
