// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

import (
	"errors"
	"math"
	"time"

	"github.com/vorlif/humanize"
)

const (
	clockLayout = "h:i A"
	hourLayout  = "h A"
	dayLayout   = "D"
)

// Formatter renders time labels in the locale of its humanizer.
type Formatter struct {
	humanizer *humanize.Humanizer
}

// NewFormatter returns a Formatter for the given humanizer.
func NewFormatter(hum *humanize.Humanizer) (*Formatter, error) {
	if hum == nil {
		return nil, errors.New("humanizer is required")
	}
	return &Formatter{humanizer: hum}, nil
}

// LocalTime shifts the UNIX timestamp by the timezone offset (in seconds) and returns it as UTC,
// so the host timezone never leaks into the result.
func LocalTime(ts int64, offset int) time.Time {
	return time.Unix(ts+int64(offset), 0).UTC()
}

// FormatClockTime renders the shifted timestamp as hour and minute with AM/PM, e.g. "06:42 AM".
func (f *Formatter) FormatClockTime(ts int64, offset int) string {
	return f.humanizer.FormatTime(LocalTime(ts, offset), clockLayout)
}

// FormatHourLabel renders only the hour of the shifted timestamp, e.g. "03 PM".
func (f *Formatter) FormatHourLabel(ts int64, offset int) string {
	return f.humanizer.FormatTime(LocalTime(ts, offset), hourLayout)
}

// FormatDayLabel renders the abbreviated weekday of the shifted timestamp, e.g. "Mon".
func (f *Formatter) FormatDayLabel(ts int64, offset int) string {
	return f.humanizer.FormatTime(LocalTime(ts, offset), dayLayout)
}

// Round rounds to the nearest integer, half away from zero.
func Round(v float64) int {
	return int(math.Round(v))
}

// WindKMH converts a wind speed in m/s to rounded km/h.
func WindKMH(ms float64) int {
	return Round(ms * 3.6)
}
