// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the weather-dashboard service.
package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/service"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	// Environment overrides, e.g. the API key, may live in a .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error("failed to load .env file", logger.Err(err))
		os.Exit(1)
	}

	confPath := flag.String("config", "", "path to the config file")
	flag.Parse()

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}
	log = logger.New(conf.LogLevel)

	// Initialize the service
	serv, err := service.New(conf, log)
	if err != nil {
		log.Error("failed to initialize weather-dashboard service", logger.Err(err))
		os.Exit(1)
	}

	log.Info("starting weather-dashboard service", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	if err = serv.Run(ctx); err != nil {
		log.Error("failed to run weather-dashboard service", logger.Err(err))
	}
	log.Info("shutting down weather-dashboard service")
}

// loadConfig reads the given config file, or the one in the default location if present. Without
// a file the config is built from defaults and environment variables only.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		return config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
	}
	if path, file := findConfigFile(); path != "" && file != "" {
		return config.NewFromFile(path, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "weather-dashboard", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
