// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wneessen/weather-dashboard/internal/format"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/surface"
)

func TestNew(t *testing.T) {
	t.Run("creating a new server succeeds", func(t *testing.T) {
		srv, err := New(surface.New(), "127.0.0.1:0", testLogger())
		if err != nil {
			t.Fatalf("failed to create server: %s", err)
		}
		if srv.view == nil {
			t.Fatal("expected dashboard template to be parsed")
		}
	})
	t.Run("creating a server without page fails", func(t *testing.T) {
		_, err := New(nil, "127.0.0.1:0", testLogger())
		if !errors.Is(err, ErrNoPage) {
			t.Fatalf("expected error to be %s, got %v", ErrNoPage, err)
		}
	})
}

func TestServer_Handler(t *testing.T) {
	t.Run("index page shows the regions", func(t *testing.T) {
		srv := testServer(t, testPage())
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("expected HTML content type, got %q", ct)
		}
		body := rec.Body.String()
		for _, want := range []string{
			`<h1 id="location">New York, US</h1>`,
			`<i id="weather-icon" class="fas fa-sun"></i>`,
			`<td id="pressure">1015 hPa</td>`,
			`<td>Today</td>`,
			`<p>07 AM</p>`,
		} {
			if !strings.Contains(body, want) {
				t.Errorf("expected body to contain %q", want)
			}
		}
	})
	t.Run("index page escapes region content", func(t *testing.T) {
		page := surface.New()
		page.SetText(surface.Location, "<script>alert(1)</script>")
		srv := testServer(t, page)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if strings.Contains(rec.Body.String(), "<script>alert(1)</script>") {
			t.Error("expected region content to be escaped")
		}
	})
	t.Run("dashboard API returns the view", func(t *testing.T) {
		srv := testServer(t, testPage())
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var view surface.View
		if err := json.NewDecoder(rec.Body).Decode(&view); err != nil {
			t.Fatalf("failed to decode view: %s", err)
		}
		if view.Text(surface.Location) != "New York, US" {
			t.Errorf("expected location to be %q, got %q", "New York, US", view.Text(surface.Location))
		}
		if view.Text(surface.Wind) != surface.Placeholder {
			t.Errorf("expected unset region to be %q, got %q", surface.Placeholder, view.Text(surface.Wind))
		}
		if len(view.Hourly) != 1 || len(view.Daily) != 1 {
			t.Errorf("expected one hourly and one daily item, got %d/%d", len(view.Hourly), len(view.Daily))
		}
	})
	t.Run("unsupported method is rejected", func(t *testing.T) {
		srv := testServer(t, testPage())
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/dashboard", nil))
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
	t.Run("unknown path is not found", func(t *testing.T) {
		srv := testServer(t, testPage())
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})
}

func TestServer_ListenAndServe(t *testing.T) {
	t.Run("server shuts down when the context is canceled", func(t *testing.T) {
		srv, err := New(testPage(), "127.0.0.1:0", testLogger())
		if err != nil {
			t.Fatalf("failed to create server: %s", err)
		}
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		if err = srv.ListenAndServe(ctx); err != nil {
			t.Errorf("expected graceful shutdown, got %s", err)
		}
	})
	t.Run("server with invalid listen address fails", func(t *testing.T) {
		srv, err := New(testPage(), "invalid:address:99999", testLogger())
		if err != nil {
			t.Fatalf("failed to create server: %s", err)
		}
		if err = srv.ListenAndServe(t.Context()); err == nil {
			t.Error("expected server to fail")
		}
	})
}

func testPage() *surface.Page {
	page := surface.New()
	page.SetText(surface.Location, "New York, US")
	page.SetText(surface.Icon, string(format.IconSun))
	page.SetText(surface.Pressure, "1015 hPa")
	page.SetHourly([]surface.HourlyItem{{Time: "07 AM", Icon: format.IconSun, Temp: "0°"}})
	page.SetDaily([]surface.DailyItem{{Day: "Today", Icon: format.IconCloud, High: "25°", Low: "12°"}})
	return page
}

func testServer(t *testing.T, page *surface.Page) *Server {
	t.Helper()
	srv, err := New(page, "127.0.0.1:0", testLogger())
	if err != nil {
		t.Fatalf("failed to create server: %s", err)
	}
	return srv
}

func testLogger() *logger.Logger {
	return logger.NewLogger(slog.LevelError, io.Discard)
}
