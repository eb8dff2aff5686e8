// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package surface holds the dashboard page: a fixed set of named text regions plus the hourly
// and daily forecast lists. Outputs read a consistent View of it.
package surface

import (
	"sync"
	"time"

	"github.com/wneessen/weather-dashboard/internal/format"
)

// Placeholder is the content of a region that was never written.
const Placeholder = "--"

type Region string

const (
	Location    Region = "location"
	Date        Region = "date"
	Icon        Region = "weather-icon"
	Temperature Region = "temperature"
	Description Region = "weather-description"
	High        Region = "high-temp"
	Low         Region = "low-temp"
	Sunrise     Region = "sunrise"
	Sunset      Region = "sunset"
	Humidity    Region = "humidity"
	Wind        Region = "wind"
	FeelsLike   Region = "feels-like"
	Pressure    Region = "pressure"
	MoonPhase   Region = "moon-phase"
)

// Regions lists all text regions in display order.
var Regions = []Region{
	Location, Date, Icon, Temperature, Description, High, Low, Sunrise, Sunset, Humidity, Wind,
	FeelsLike, Pressure, MoonPhase,
}

type HourlyItem struct {
	Time string        `json:"time"`
	Icon format.IconID `json:"icon"`
	Temp string        `json:"temp"`
}

type DailyItem struct {
	Day  string        `json:"day"`
	Icon format.IconID `json:"icon"`
	High string        `json:"high"`
	Low  string        `json:"low"`
}

// View is a copy of the page content at one point in time.
type View struct {
	Regions   map[Region]string `json:"regions"`
	Hourly    []HourlyItem      `json:"hourly"`
	Daily     []DailyItem       `json:"daily"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Text returns the content of the given region.
func (v View) Text(r Region) string {
	return v.Regions[r]
}

// Page is safe for concurrent use.
type Page struct {
	mu      sync.RWMutex
	regions map[Region]string
	hourly  []HourlyItem
	daily   []DailyItem
	updated time.Time
}

// New returns a Page with every region set to the Placeholder.
func New() *Page {
	regions := make(map[Region]string, len(Regions))
	for _, r := range Regions {
		regions[r] = Placeholder
	}
	return &Page{regions: regions}
}

// Update is a batch of changes committed to a Page at once. Regions not in the map and nil lists
// are left unchanged.
type Update struct {
	Regions map[Region]string
	Hourly  []HourlyItem
	Daily   []DailyItem
}

// Apply commits all changes of u under a single lock, so a concurrent View sees either none or all
// of them.
func (p *Page) Apply(u Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for r, text := range u.Regions {
		p.regions[r] = text
	}
	if u.Hourly != nil {
		p.hourly = append([]HourlyItem(nil), u.Hourly...)
	}
	if u.Daily != nil {
		p.daily = append([]DailyItem(nil), u.Daily...)
	}
	p.updated = time.Now()
}

func (p *Page) SetText(r Region, text string) {
	p.Apply(Update{Regions: map[Region]string{r: text}})
}

func (p *Page) Text(r Region) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.regions[r]
}

// SetHourly replaces the hourly list.
func (p *Page) SetHourly(items []HourlyItem) {
	if items == nil {
		items = []HourlyItem{}
	}
	p.Apply(Update{Hourly: items})
}

// SetDaily replaces the daily list.
func (p *Page) SetDaily(items []DailyItem) {
	if items == nil {
		items = []DailyItem{}
	}
	p.Apply(Update{Daily: items})
}

func (p *Page) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	regions := make(map[Region]string, len(p.regions))
	for r, text := range p.regions {
		regions[r] = text
	}
	return View{
		Regions:   regions,
		Hourly:    append([]HourlyItem(nil), p.hourly...),
		Daily:     append([]DailyItem(nil), p.daily...),
		UpdatedAt: p.updated,
	}
}
