// ABOUTME: Demo HTTP server answering the dashboard metrics endpoints from the SQLite call store.
// ABOUTME: chi router with request logging, Prometheus metrics, and x-api-key authentication on /v1 routes.
package demoapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/sjson"

	"github.com/2389-research/calldeck/logger"
	"github.com/2389-research/calldeck/metricsapi"
)

// APIKeyHeader carries the caller's key.
const APIKeyHeader = "x-api-key"

// DefaultAddr is the listen address when none is configured.
const DefaultAddr = "127.0.0.1:8000"

// ServerConfig holds the configuration for the demo server.
type ServerConfig struct {
	Addr    string   // listen address (default DefaultAddr)
	APIKeys []string // accepted x-api-key values; empty accepts metricsapi.DefaultAPIKey
	Logger  *logger.Logger
	Metrics *Metrics
}

// Server serves the dashboard endpoints.
type Server struct {
	store   *Store
	log     *logger.Logger
	metrics *Metrics
	keys    map[string]bool
	addr    string
	router  chi.Router
}

// NewServer creates a Server backed by store.
func NewServer(store *Store, cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}

	keys := make(map[string]bool, len(cfg.APIKeys))
	for _, k := range cfg.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys[k] = true
		}
	}
	if len(keys) == 0 {
		keys[metricsapi.DefaultAPIKey] = true
	}

	s := &Server{
		store:   store,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		keys:    keys,
		addr:    cfg.Addr,
	}
	s.router = s.buildRouter()
	return s
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("demo api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down demo api: %w", err)
		}
		return nil
	}
}

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHome)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/v1/metrics/dashboard", func(r chi.Router) {
		r.Use(s.requireAPIKey)
		r.Get("/overview", s.handleOverview)
		r.Get("/outcomes", s.handleDistribution("outcome"))
		r.Get("/sentiment", s.handleDistribution("sentiment"))
		r.Get("/calls", s.handleCalls)
		r.Get("/calls/{callID}", s.handleCall)
	})

	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

// requestLogger logs one line per request and records it in the metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		s.metrics.RecordRequest(route, status, elapsed.Seconds())

		reqID := r.Header.Get(metricsapi.RequestIDHeader)
		if reqID == "" {
			reqID = middleware.GetReqID(r.Context())
		}
		s.log.WithRequestID(reqID).WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   status,
			"bytes":    rec.bytes,
			"duration": elapsed.Round(time.Microsecond).String(),
			"remote":   r.RemoteAddr,
		}).Info("demo request")
	})
}

// requireAPIKey rejects requests whose x-api-key is not configured.
func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.keys[r.Header.Get(APIKeyHeader)] {
			s.metrics.RecordAuthFailure()
			writeDetail(w, http.StatusUnauthorized, "Invalid or missing X-API-Key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	page, err := renderLanding(n)
	if err != nil {
		s.serverError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Count(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.metrics.SetStoredCalls(n)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "calls": n})
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := s.store.Overview(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

func (s *Server) handleDistribution(column string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		buckets, err := s.store.Distribution(r.Context(), column)
		if err != nil {
			s.serverError(w, err)
			return
		}
		body, err := encodeDistribution(buckets)
		if err != nil {
			s.serverError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func (s *Server) handleCalls(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeDetail(w, http.StatusUnprocessableEntity, "limit must be an integer")
			return
		}
		limit = n
	}
	recs, err := s.store.RecentCalls(r.Context(), limit)
	if err != nil {
		s.serverError(w, err)
		return
	}
	out := make([]CallSummary, len(recs))
	for i, rec := range recs {
		out[i] = rec.ListRow()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Call(r.Context(), chi.URLParam(r, "callID"))
	if errors.Is(err, ErrCallNotFound) {
		writeDetail(w, http.StatusNotFound, "call not found")
		return
	}
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.log.WithError(err).Error("demo api request failed")
	writeDetail(w, http.StatusInternalServerError, "internal server error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// encodeDistribution writes buckets as a JSON object whose key order is the
// bucket order.
func encodeDistribution(buckets []Bucket) ([]byte, error) {
	body := []byte("{}")
	for _, b := range buckets {
		next, err := sjson.SetBytes(body, metricsapi.ObjectPath(b.Label), b.Count)
		if err != nil {
			return nil, fmt.Errorf("encoding label %q: %w", b.Label, err)
		}
		body = next
	}
	return body, nil
}
