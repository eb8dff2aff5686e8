// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/Xuanwo/go-locale"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"golang.org/x/text/language"
)

//go:embed locale/*
var locales embed.FS

// Tag returns the language tag for the given locale string. An empty string detects the locale of
// the host and falls back to English if that fails.
func Tag(loc string) language.Tag {
	if loc != "" {
		return language.Make(loc)
	}
	tag, err := locale.Detect()
	if err != nil {
		return language.English
	}
	return tag
}

// New returns a localizer for the fixed UI messages in the given language.
func New(tag language.Tag) (*spreak.Localizer, error) {
	localeFS, err := fs.Sub(locales, "locale")
	if err != nil {
		return nil, fmt.Errorf("failed to load locales: %w", err)
	}

	bundle, err := spreak.NewBundle(
		spreak.WithSourceLanguage(language.English),
		spreak.WithFallbackLanguage(language.English),
		spreak.WithDomainFs("", localeFS),
		spreak.WithLanguage(tag),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create i18n bundle: %w", err)
	}
	return spreak.NewLocalizer(bundle, tag), nil
}

// NewHumanizer returns a humanizer for locale aware date formatting in the given language.
func NewHumanizer(tag language.Tag) *humanize.Humanizer {
	collection := humanize.MustNew(humanize.WithLocale(de.New()))
	return collection.CreateHumanizer(tag)
}
