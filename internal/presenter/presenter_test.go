// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"text/template"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/format"
	"github.com/wneessen/weather-dashboard/internal/i18n"
	"github.com/wneessen/weather-dashboard/internal/surface"
)

func TestNew(t *testing.T) {
	t.Run("creating a new presenter succeeds", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		if pres.TerminalTemplate == nil || pres.TextTemplate == nil || pres.TooltipTemplate == nil {
			t.Fatal("expected all templates to be parsed")
		}
	})
	t.Run("creating a presenter with broken templates fails", func(t *testing.T) {
		tests := []struct {
			name  string
			setFn func(*config.Config)
		}{
			{"terminal", func(c *config.Config) { c.Templates.Terminal = "{{.Location" }},
			{"text", func(c *config.Config) { c.Templates.Text = "{{if}}" }},
			{"tooltip", func(c *config.Config) { c.Templates.Tooltip = "{{unknownFunc .Location}}" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t)
				tt.setFn(conf)
				if _, err := New(conf, lang); err == nil {
					t.Error("expected presenter creation to fail, but didn't")
				}
			})
		}
	})
}

func TestPresenter_BuildContext(t *testing.T) {
	t.Run("filled page", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		tplCtx := pres.BuildContext(testPage().View())
		if tplCtx.Location != "New York, US" {
			t.Errorf("expected location to be %q, got %q", "New York, US", tplCtx.Location)
		}
		if tplCtx.Icon != format.IconSun || tplCtx.Glyph != format.IconSun.Glyph() {
			t.Errorf("unexpected icon %q/%q", tplCtx.Icon, tplCtx.Glyph)
		}
		if len(tplCtx.Hourly) != 2 || len(tplCtx.Daily) != 2 {
			t.Errorf("expected lists to be copied, got %d/%d", len(tplCtx.Hourly), len(tplCtx.Daily))
		}
	})
	t.Run("empty page keeps placeholders", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		tplCtx := pres.BuildContext(surface.New().View())
		if tplCtx.Glyph != surface.Placeholder {
			t.Errorf("expected glyph placeholder, got %q", tplCtx.Glyph)
		}
		if tplCtx.Temperature != surface.Placeholder {
			t.Errorf("expected temperature placeholder, got %q", tplCtx.Temperature)
		}
	})
}

func TestPresenter_Render(t *testing.T) {
	t.Run("rendering succeeds", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		outMap, err := pres.Render(pres.BuildContext(testPage().View()))
		if err != nil {
			t.Fatalf("failed to render: %s", err)
		}
		if len(outMap) != 3 {
			t.Errorf("expected output map to have length 3, got %d", len(outMap))
		}
		wantText := format.IconSun.Glyph() + " 22°"
		if outMap["text"] != wantText {
			t.Errorf("expected text output to be %q, got %q", wantText, outMap["text"])
		}
		for _, want := range []string{"New York, US", "Sunrise: 07:20 AM", "Wind: 18 km/h", "H:25° L:12°"} {
			if !strings.Contains(outMap["tooltip"], want) {
				t.Errorf("expected tooltip to contain %q, got %q", want, outMap["tooltip"])
			}
		}
		for _, want := range []string{"Today", "07 AM", "1015 hPa", "Monday, Jan 6, 2025"} {
			if !strings.Contains(outMap["terminal"], want) {
				t.Errorf("expected terminal output to contain %q, got %q", want, outMap["terminal"])
			}
		}
	})
	t.Run("rendering with invalid templates fails", func(t *testing.T) {
		tests := []struct {
			name       string
			templateFn func(*Presenter)
		}{
			{"terminal", func(pres *Presenter) {
				pres.TerminalTemplate = template.Must(template.New("terminal").Parse("{{.Data}}"))
			}},
			{"text", func(pres *Presenter) {
				pres.TextTemplate = template.Must(template.New("text").Parse("{{.Data}}"))
			}},
			{"tooltip", func(pres *Presenter) {
				pres.TooltipTemplate = template.Must(template.New("tooltip").Parse("{{.Data}}"))
			}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t)
				pres, err := New(conf, lang)
				if err != nil {
					t.Fatalf("failed to create presenter: %s", err)
				}
				tt.templateFn(pres)
				if _, err = pres.Render(pres.BuildContext(testPage().View())); err == nil {
					t.Error("expected rendering to fail, but didn't")
				}
			})
		}
	})
}

func TestPresenter_Write(t *testing.T) {
	t.Run("waybar output is a single JSON line", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		if err = pres.Write(buf, config.OutputWaybar, testPage().View()); err != nil {
			t.Fatalf("failed to write output: %s", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Errorf("expected exactly one line, got %q", buf.String())
		}
		var output WaybarOutput
		if err = json.Unmarshal(buf.Bytes(), &output); err != nil {
			t.Fatalf("failed to decode waybar output: %s", err)
		}
		if output.Class != "sun" {
			t.Errorf("expected class to be %q, got %q", "sun", output.Class)
		}
		if !strings.Contains(output.Tooltip, "New York, US") {
			t.Errorf("expected tooltip to contain the location, got %q", output.Tooltip)
		}
	})
	t.Run("waybar output for a failed fetch", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		page := surface.New()
		page.SetText(surface.Location, "Unable to fetch weather data")
		buf := bytes.NewBuffer(nil)
		if err = pres.Write(buf, config.OutputWaybar, page.View()); err != nil {
			t.Fatalf("failed to write output: %s", err)
		}
		var output WaybarOutput
		if err = json.Unmarshal(buf.Bytes(), &output); err != nil {
			t.Fatalf("failed to decode waybar output: %s", err)
		}
		if output.Class != "unavailable" {
			t.Errorf("expected class to be %q, got %q", "unavailable", output.Class)
		}
	})
	t.Run("text output", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		if err = pres.Write(buf, config.OutputText, testPage().View()); err != nil {
			t.Fatalf("failed to write output: %s", err)
		}
		if !strings.HasPrefix(buf.String(), "Location") {
			t.Errorf("expected terminal output to start with the location label, got %q", buf.String())
		}
	})
	t.Run("no output", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		buf := bytes.NewBuffer(nil)
		if err = pres.Write(buf, config.OutputNone, testPage().View()); err != nil {
			t.Fatalf("failed to write output: %s", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
	t.Run("unknown output format fails", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		if err = pres.Write(bytes.NewBuffer(nil), "xml", testPage().View()); err == nil {
			t.Error("expected write to fail, but didn't")
		}
	})
}

func TestPresenter_loc(t *testing.T) {
	conf, _ := testConfLang(t)
	lang, err := i18n.New(language.German)
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	pres, err := New(conf, lang)
	if err != nil {
		t.Fatalf("failed to create presenter: %s", err)
	}
	if got := pres.loc("Sunrise"); got != "Sonnenaufgang" {
		t.Errorf("expected %q, got %q", "Sonnenaufgang", got)
	}
	if got := pres.loc("not translated"); got != "not translated" {
		t.Errorf("expected untranslated message to pass through, got %q", got)
	}
	pres.localizer = nil
	if got := pres.loc("Sunrise"); got != "Sunrise" {
		t.Errorf("expected message to pass through without localizer, got %q", got)
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		val   string
		width int
	}{
		{"07 AM", 8},
		{"☀️ 22°", 8},
		{"Heute", 8},
		{"東京", 8},
	}
	for _, tc := range tests {
		if got := runewidth.StringWidth(pad(tc.val, tc.width)); got != tc.width {
			t.Errorf("expected %q to be padded to width %d, got %d", tc.val, tc.width, got)
		}
	}
	if got := pad("a very long value", 4); got != "a very long value " {
		t.Errorf("expected long value to be separated by a space, got %q", got)
	}
}

func TestConditionClass(t *testing.T) {
	tests := map[format.IconID]string{
		format.IconCloudRain: "cloud-rain",
		format.IconSun:       "sun",
		"":                   "unavailable",
		surface.Placeholder:  "unavailable",
	}
	for icon, want := range tests {
		if got := conditionClass(icon); got != want {
			t.Errorf("expected class for %q to be %q, got %q", icon, want, got)
		}
	}
}

func testPage() *surface.Page {
	page := surface.New()
	texts := map[surface.Region]string{
		surface.Location:    "New York, US",
		surface.Date:        "Monday, Jan 6, 2025",
		surface.Icon:        string(format.IconSun),
		surface.Temperature: "22°",
		surface.Description: "clear sky",
		surface.High:        "H:25°",
		surface.Low:         "L:12°",
		surface.Sunrise:     "07:20 AM",
		surface.Sunset:      "04:46 PM",
		surface.Humidity:    "48%",
		surface.Wind:        "18 km/h",
		surface.FeelsLike:   "21°",
		surface.Pressure:    "1015 hPa",
		surface.MoonPhase:   "🌒 Waxing crescent",
	}
	for region, text := range texts {
		page.SetText(region, text)
	}
	page.SetHourly([]surface.HourlyItem{
		{Time: "07 AM", Icon: format.IconSun, Temp: "0°"},
		{Time: "10 AM", Icon: format.IconCloudSun, Temp: "3°"},
	})
	page.SetDaily([]surface.DailyItem{
		{Day: "Today", Icon: format.IconCloudSunRain, High: "25°", Low: "12°"},
		{Day: "Tue", Icon: format.IconSnowflake, High: "26°", Low: "11°"},
	})
	return page
}

func testConfLang(t *testing.T) (*config.Config, *spreak.Localizer) {
	t.Helper()
	t.Setenv("WEATHERDASHBOARD_WEATHER_PROVIDER", config.ProviderOpenMeteo)
	conf, err := config.New()
	if err != nil {
		t.Fatalf("failed to create config: %s", err)
	}
	lang, err := i18n.New(language.English)
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	return conf, lang
}
