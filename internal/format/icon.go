// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package format

// IconID identifies a weather condition icon. The values are Font Awesome CSS classes so the HTML
// dashboard can use them as-is.
type IconID string

const (
	IconSun          IconID = "fas fa-sun"
	IconMoon         IconID = "fas fa-moon"
	IconCloudSun     IconID = "fas fa-cloud-sun"
	IconCloudMoon    IconID = "fas fa-cloud-moon"
	IconCloud        IconID = "fas fa-cloud"
	IconCloudHeavy   IconID = "fas fa-cloud-meatball"
	IconCloudRain    IconID = "fas fa-cloud-rain"
	IconCloudSunRain IconID = "fas fa-cloud-sun-rain"
	IconCloudMoonRn  IconID = "fas fa-cloud-moon-rain"
	IconBolt         IconID = "fas fa-bolt"
	IconSnowflake    IconID = "fas fa-snowflake"
	IconSmog         IconID = "fas fa-smog"
)

// conditionIcons maps OpenWeatherMap icon codes to icons
var conditionIcons = map[string]IconID{
	"01d": IconSun,
	"01n": IconMoon,
	"02d": IconCloudSun,
	"02n": IconCloudMoon,
	"03d": IconCloud,
	"03n": IconCloud,
	"04d": IconCloudHeavy,
	"04n": IconCloudHeavy,
	"09d": IconCloudRain,
	"09n": IconCloudRain,
	"10d": IconCloudSunRain,
	"10n": IconCloudMoonRn,
	"11d": IconBolt,
	"11n": IconBolt,
	"13d": IconSnowflake,
	"13n": IconSnowflake,
	"50d": IconSmog,
	"50n": IconSmog,
}

var iconGlyphs = map[IconID]string{
	IconSun:          "☀️",
	IconMoon:         "🌙",
	IconCloudSun:     "🌤️",
	IconCloudMoon:    "☁️",
	IconCloud:        "☁️",
	IconCloudHeavy:   "☁️",
	IconCloudRain:    "🌧️",
	IconCloudSunRain: "🌦️",
	IconCloudMoonRn:  "🌧️",
	IconBolt:         "⛈️",
	IconSnowflake:    "❄️",
	IconSmog:         "🌫️",
}

// IconFor returns the icon for the given condition code. Unknown codes, including the empty
// string, yield IconCloud.
func IconFor(code string) IconID {
	if icon, ok := conditionIcons[code]; ok {
		return icon
	}
	return IconCloud
}

// Glyph returns an emoji representation of the icon for text based outputs.
func (i IconID) Glyph() string {
	if glyph, ok := iconGlyphs[i]; ok {
		return glyph
	}
	return iconGlyphs[IconCloud]
}
