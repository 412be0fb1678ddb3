// Package web serves the JSON API and the HTML month view.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"holical/internal/calendar"
	"holical/internal/config"
	"holical/internal/holiday"
	appLog "holical/internal/log"
	"holical/internal/schedule"
	"holical/internal/store"
)

// Deps are the collaborators the handlers call into.
type Deps struct {
	Store     store.EventStore
	Assembler *calendar.Assembler
	Holidays  *holiday.Service

	// Caches are purged by POST /api/v1/holidays/cache/clear.
	Caches []schedule.Clearer

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server provides the HTTP API.
type Server struct {
	cfg  *config.Config
	deps Deps
	mux  *http.ServeMux
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	s := &Server{
		cfg:  cfg,
		deps: deps,
		mux:  http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the root handler, wrapped in basic auth when configured.
func (s *Server) Handler() http.Handler {
	h := s.logRequests(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware protects everything except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="holical", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		appLog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", time.Since(start).String(),
		)
	})
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/events", s.handleListEvents)
	s.mux.HandleFunc("POST /api/v1/events", s.handleCreateEvent)
	s.mux.HandleFunc("GET /api/v1/events/expanded", s.handleExpandedEvents)
	s.mux.HandleFunc("GET /api/v1/events/{id}", s.handleGetEvent)
	s.mux.HandleFunc("PUT /api/v1/events/{id}", s.handleUpdateEvent)
	s.mux.HandleFunc("DELETE /api/v1/events/{id}", s.handleDeleteEvent)

	s.mux.HandleFunc("GET /api/v1/holidays/countries", s.handleCountries)
	s.mux.HandleFunc("GET /api/v1/holidays/{country}/{year}/{month}", s.handleHolidays)
	s.mux.HandleFunc("POST /api/v1/holidays/cache/clear", s.handleClearCache)

	s.mux.HandleFunc("GET /api/v1/calendar/{year}/{month}", s.handleCalendarJSON)
	s.mux.HandleFunc("GET /calendar", s.handleCalendarHTML)
}

// StartServer serves s on listen until ctx is cancelled, then shuts down
// gracefully.
func StartServer(ctx context.Context, listen string, s *Server) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleClearCache(w http.ResponseWriter, _ *http.Request) {
	for _, c := range s.deps.Caches {
		c.Clear()
	}
	appLog.Info("caches cleared via API", "count", len(s.deps.Caches))
	writeJSON(w, http.StatusOK, map[string]any{"cleared": len(s.deps.Caches)})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
