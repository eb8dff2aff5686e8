// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("config file from flag is loaded", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		conf, err := loadConfig("../../etc/config.toml")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.Provider != "open-meteo" {
			t.Errorf("expected provider to be %q, got %q", "open-meteo", conf.Weather.Provider)
		}
	})
	t.Run("missing config file fails", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		if _, err := loadConfig("../../etc/nonexisting.toml"); err == nil {
			t.Error("expected config loading to fail")
		}
	})
	t.Run("config without file uses defaults and environment", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("WEATHERDASHBOARD_WEATHER_APIKEY", "abc")
		conf, err := loadConfig("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Weather.APIKey != "abc" {
			t.Errorf("expected API key from environment, got %q", conf.Weather.APIKey)
		}
	})
	t.Run("config in default location is found", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		dir := filepath.Join(home, ".config", "weather-dashboard")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("failed to create config dir: %s", err)
		}
		data := []byte("units = \"imperial\"\n[weather]\nprovider = \"open-meteo\"\n")
		if err := os.WriteFile(filepath.Join(dir, "config.toml"), data, 0o600); err != nil {
			t.Fatalf("failed to write config file: %s", err)
		}
		conf, err := loadConfig("")
		if err != nil {
			t.Fatalf("failed to load config: %s", err)
		}
		if conf.Units != "imperial" {
			t.Errorf("expected units to be %q, got %q", "imperial", conf.Units)
		}
	})
}
