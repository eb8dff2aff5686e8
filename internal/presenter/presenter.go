// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/format"
	"github.com/wneessen/weather-dashboard/internal/surface"
)

// TemplateContext is the data the output templates are executed with.
type TemplateContext struct {
	Location    string
	Date        string
	Icon        format.IconID
	Glyph       string
	Temperature string
	Description string
	High        string
	Low         string
	Sunrise     string
	Sunset      string
	Humidity    string
	Wind        string
	FeelsLike   string
	Pressure    string
	MoonPhase   string

	Hourly    []surface.HourlyItem
	Daily     []surface.DailyItem
	UpdatedAt time.Time
}

// WaybarOutput is the JSON object waybar expects from a custom module.
type WaybarOutput struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

type Presenter struct {
	TerminalTemplate *template.Template
	TextTemplate     *template.Template
	TooltipTemplate  *template.Template

	localizer *spreak.Localizer
}

func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	pres := &Presenter{localizer: loc}
	var err error

	pres.TerminalTemplate, err = template.New("terminal").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Terminal)
	if err != nil {
		return nil, fmt.Errorf("failed to parse terminal template: %w", err)
	}
	pres.TextTemplate, err = template.New("text").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	pres.TooltipTemplate, err = template.New("tooltip").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Tooltip)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tooltip template: %w", err)
	}

	return pres, nil
}

// BuildContext turns a surface view into a TemplateContext.
func (p *Presenter) BuildContext(view surface.View) TemplateContext {
	icon := format.IconID(view.Text(surface.Icon))
	glyph := surface.Placeholder
	if icon != surface.Placeholder && icon != "" {
		glyph = icon.Glyph()
	}
	return TemplateContext{
		Location:    view.Text(surface.Location),
		Date:        view.Text(surface.Date),
		Icon:        icon,
		Glyph:       glyph,
		Temperature: view.Text(surface.Temperature),
		Description: view.Text(surface.Description),
		High:        view.Text(surface.High),
		Low:         view.Text(surface.Low),
		Sunrise:     view.Text(surface.Sunrise),
		Sunset:      view.Text(surface.Sunset),
		Humidity:    view.Text(surface.Humidity),
		Wind:        view.Text(surface.Wind),
		FeelsLike:   view.Text(surface.FeelsLike),
		Pressure:    view.Text(surface.Pressure),
		MoonPhase:   view.Text(surface.MoonPhase),
		Hourly:      view.Hourly,
		Daily:       view.Daily,
		UpdatedAt:   view.UpdatedAt,
	}
}

// Render executes all templates and returns the results keyed by template name.
func (p *Presenter) Render(ctx TemplateContext) (map[string]string, error) {
	outMap := make(map[string]string)
	templates := map[string]*template.Template{
		"terminal": p.TerminalTemplate,
		"text":     p.TextTemplate,
		"tooltip":  p.TooltipTemplate,
	}
	for name, tpl := range templates {
		buf := bytes.NewBuffer(nil)
		if err := tpl.Execute(buf, ctx); err != nil {
			return nil, fmt.Errorf("failed to render %s template: %w", name, err)
		}
		outMap[name] = buf.String()
	}
	return outMap, nil
}

// Write renders the view and writes it to w in the given output format.
func (p *Presenter) Write(w io.Writer, outputFormat string, view surface.View) error {
	if outputFormat == config.OutputNone {
		return nil
	}
	tplCtx := p.BuildContext(view)
	outMap, err := p.Render(tplCtx)
	if err != nil {
		return err
	}

	switch outputFormat {
	case config.OutputWaybar:
		output := WaybarOutput{
			Text:    outMap["text"],
			Tooltip: outMap["tooltip"],
			Class:   conditionClass(tplCtx.Icon),
		}
		if err = json.NewEncoder(w).Encode(output); err != nil {
			return fmt.Errorf("failed to encode waybar output: %w", err)
		}
	case config.OutputText:
		if _, err = fmt.Fprintln(w, outMap["terminal"]); err != nil {
			return fmt.Errorf("failed to write terminal output: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
	return nil
}

// conditionClass returns the CSS class waybar uses to style the module, e.g. "cloud-rain".
func conditionClass(icon format.IconID) string {
	if icon == "" || icon == surface.Placeholder {
		return "unavailable"
	}
	return strings.TrimPrefix(string(icon), "fas fa-")
}
