// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openmeteo

// WMOWeatherCodes maps WMO weather code integers to their descriptions
var WMOWeatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// wmoIconCodes maps WMO weather codes to the OpenWeatherMap icon code without the day/night suffix
var wmoIconCodes = map[int]string{
	0:  "01",
	1:  "02",
	2:  "03",
	3:  "04",
	45: "50",
	48: "50",
	51: "09",
	53: "09",
	55: "09",
	56: "09",
	57: "09",
	61: "10",
	63: "10",
	65: "10",
	66: "13",
	67: "13",
	71: "13",
	73: "13",
	75: "13",
	77: "13",
	80: "09",
	81: "09",
	82: "09",
	85: "13",
	86: "13",
	95: "11",
	96: "11",
	99: "11",
}

// IconCode translates a WMO weather code into an OpenWeatherMap style icon code. Unknown codes
// yield an empty string.
func IconCode(code int, isDay bool) string {
	icon, ok := wmoIconCodes[code]
	if !ok {
		return ""
	}
	if isDay {
		return icon + "d"
	}
	return icon + "n"
}
