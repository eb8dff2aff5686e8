// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"text/template"

	"github.com/mattn/go-runewidth"

	"github.com/wneessen/weather-dashboard/internal/format"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"loc":   p.loc,
		"glyph": glyph,
		"pad":   pad,
		"lc":    strings.ToLower,
		"uc":    strings.ToUpper,
	}
}

func (p *Presenter) loc(val string) string {
	if p.localizer == nil {
		return val
	}
	return p.localizer.Get(val)
}

func glyph(icon format.IconID) string {
	return icon.Glyph()
}

// pad fills val with spaces up to the given display width. Emoji and East Asian characters
// count with their terminal cell width.
func pad(val string, width int) string {
	if runewidth.StringWidth(val) >= width {
		return val + " "
	}
	return runewidth.FillRight(val, width)
}
