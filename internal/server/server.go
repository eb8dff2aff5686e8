// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package server exposes the dashboard page over HTTP, as an HTML page and as JSON.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/surface"
)

const shutdownTimeout = 5 * time.Second

//go:embed assets/index.html.tmpl
var assets embed.FS

// ErrNoPage is returned by New if no page was given.
var ErrNoPage = errors.New("dashboard page is required")

type Server struct {
	page   *surface.Page
	logger *logger.Logger
	view   *template.Template
	srv    *http.Server
}

type pageData struct {
	Regions map[string]string
	Hourly  []surface.HourlyItem
	Daily   []surface.DailyItem
	Updated string
}

// New returns a Server for the given page listening on the given address.
func New(page *surface.Page, listen string, log *logger.Logger) (*Server, error) {
	if page == nil {
		return nil, ErrNoPage
	}
	view, err := template.ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	server := &Server{
		page:   page,
		logger: log,
		view:   view,
	}
	server.srv = &http.Server{
		Addr:              listen,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server, nil
}

// Handler returns the router serving the dashboard endpoints.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/", s.serveIndex).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/api/dashboard", s.serveDashboard).Methods(http.MethodGet, http.MethodHead)
	return router
}

// ListenAndServe serves HTTP until ctx is canceled and then shuts the server down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting dashboard server", slog.String("listen", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("dashboard server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dashboard server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down dashboard server: %w", err)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, _ *http.Request) {
	view := s.page.View()
	data := pageData{
		Regions: make(map[string]string, len(view.Regions)),
		Hourly:  view.Hourly,
		Daily:   view.Daily,
	}
	for region, text := range view.Regions {
		data.Regions[string(region)] = text
	}
	if !view.UpdatedAt.IsZero() {
		data.Updated = view.UpdatedAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.view.Execute(w, data); err != nil {
		s.logger.Error("failed to execute dashboard template", logger.Err(err))
	}
}

func (s *Server) serveDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.page.View()); err != nil {
		s.logger.Error("failed to encode dashboard view", logger.Err(err))
	}
}
