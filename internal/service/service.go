// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the dashboard together: it resolves the location once, fetches and renders
// the weather once and keeps the date label current until shut down.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/geobus"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/i18n"
	"github.com/wneessen/weather-dashboard/internal/locator"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/presenter"
	"github.com/wneessen/weather-dashboard/internal/render"
	"github.com/wneessen/weather-dashboard/internal/server"
	"github.com/wneessen/weather-dashboard/internal/surface"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	FetchTimeout   = time.Second * 10
	dateRefreshJob = "date_refresh_job"
)

type resolver interface {
	Resolve(ctx context.Context) locator.Result
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	locator   resolver
	page      *surface.Page
	presenter *presenter.Presenter
	renderer  *render.Renderer
	scheduler gocron.Scheduler
	server    *server.Server
	weather   weather.Provider

	outputLock sync.Mutex
	output     io.Writer
	now        func() time.Time
}

func New(conf *config.Config, log *logger.Logger) (*Service, error) {
	if conf == nil {
		return nil, errors.New("config is required")
	}
	if log == nil {
		return nil, errors.New("logger is required")
	}

	lang := i18n.Tag(conf.Locale)
	localizer, err := i18n.New(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to create localizer: %w", err)
	}

	page := surface.New()
	renderer, err := render.New(page, localizer, i18n.NewHumanizer(lang))
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	pres, err := presenter.New(conf, localizer)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	httpClient := http.New(log)
	providers, err := selectGeobusProviders(conf, httpClient, log)
	if err != nil {
		return nil, err
	}
	fallbackLat, fallbackLon := conf.Fallback()
	loc, err := locator.New(log, providers,
		locator.WithFallback(geobus.Coordinate{Lat: fallbackLat, Lon: fallbackLon}),
		locator.WithProbeTimeout(conf.GeoLocation.ProbeTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create locator: %w", err)
	}
	provider, err := selectWeatherProvider(conf, httpClient, lang)
	if err != nil {
		return nil, err
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		locator:   loc,
		page:      page,
		presenter: pres,
		renderer:  renderer,
		scheduler: scheduler,
		weather:   provider,
		output:    os.Stdout,
		now:       time.Now,
	}

	if conf.Server.Listen != "" {
		service.server, err = server.New(page, conf.Server.Listen, log)
		if err != nil {
			return nil, fmt.Errorf("failed to create dashboard server: %w", err)
		}
	}

	return service, nil
}

// Run renders the date, runs the weather pipeline once and keeps refreshing the date label until
// ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	s.renderer.RenderDate(s.now())

	if err := s.createScheduledJob(ctx, s.config.Intervals.DateRefresh, s.refreshDate, dateRefreshJob); err != nil {
		return err
	}
	s.scheduler.Start()

	if s.server != nil {
		go func() {
			if err := s.server.ListenAndServe(ctx); err != nil {
				s.logger.Error("dashboard server stopped", logger.Err(err))
			}
		}()
	}

	s.runPipeline(ctx)

	<-ctx.Done()
	return s.scheduler.Shutdown()
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// runPipeline resolves the location, fetches the weather for it and renders the result. An
// unsupported geolocation capability ends the pipeline before any network call.
func (s *Service) runPipeline(ctx context.Context) {
	res := s.locator.Resolve(ctx)
	switch res.Status {
	case locator.Unavailable:
		s.logger.Warn("geolocation is not supported", logger.Err(res.Err))
		s.render(nil, res.Err)
		return
	case locator.Denied:
		s.logger.Warn("geolocation request denied, using fallback location", logger.Err(res.Err),
			slog.String("coordinate", res.Coordinate.String()))
	default:
		s.logger.Debug("geolocation request granted", slog.String("coordinate", res.Coordinate.String()))
	}

	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()
	snap, err := s.weather.GetWeather(ctxFetch, res.Coordinate)
	if err != nil {
		s.logger.Error("failed to fetch weather data", logger.Err(err),
			slog.String("provider", s.weather.Name()))
	}
	s.render(snap, err)
}

func (s *Service) render(snap *weather.Snapshot, err error) {
	if rerr := s.renderer.Render(snap, err); rerr != nil {
		s.logger.Error("failed to render weather data", logger.Err(rerr))
	}
	s.emit()
}

// refreshDate re-renders the date label only. It never fetches.
func (s *Service) refreshDate(context.Context) {
	s.renderer.RenderDate(s.now())
	s.emit()
}

// emit writes the current page to the configured output.
func (s *Service) emit() {
	s.outputLock.Lock()
	defer s.outputLock.Unlock()
	if err := s.presenter.Write(s.output, s.config.Output.Format, s.page.View()); err != nil {
		s.logger.Error("failed to write dashboard output", logger.Err(err))
	}
}
