package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/calendar"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/metrics"
)

//go:embed static/index.html
var indexHTML []byte

// cacheItem stores the rendered page and its ETag.
type cacheItem struct {
	data []byte
	etag string
}

// WidgetServer serves the calculator as a browser widget on localhost.
type WidgetServer struct {
	// page is written once at construction and on Update, read on every GET /.
	page  atomic.Pointer[cacheItem]
	Port  string
	Clock age.Clock

	registry *prometheus.Registry
	metrics  *metrics.Metrics
	router   chi.Router
}

// NewWidgetServer creates a server with its own metrics registry.
func NewWidgetServer(port string, clock age.Clock) *WidgetServer {
	reg := prometheus.NewRegistry()
	s := &WidgetServer{
		Port:     port,
		Clock:    clock,
		registry: reg,
		metrics:  metrics.New(reg),
	}
	s.Update(indexHTML)
	s.router = s.routes()
	return s
}

// Handler exposes the router, mainly for tests.
func (s *WidgetServer) Handler() http.Handler {
	return s.router
}

// Metrics returns the collectors fed by the API handlers.
func (s *WidgetServer) Metrics() *metrics.Metrics {
	return s.metrics
}

func (s *WidgetServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get(config.RouteRoot, s.handlePage)
	r.Head(config.RouteRoot, s.handlePage)
	r.Get(config.RouteAge, s.handleAge)
	r.Get(config.RouteToday, s.handleToday)
	r.Get(config.RouteICal, s.handleCalendar)
	r.Get(config.RouteHealth, s.handleHealth)
	r.Method(http.MethodGet, config.RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ValidatePort checks that port is a usable TCP port number.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(config.ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	// Port "0" asks the OS for a free port.
	if err != nil || n < 0 || n > config.MaxPort {
		return fmt.Errorf("%s: %q", config.ErrPortRange, port)
	}
	return nil
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *WidgetServer) Start(ctx context.Context) error {
	if err := ValidatePort(s.Port); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served page.
func (s *WidgetServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	s.page.Store(&cacheItem{data: data, etag: etag})

	slog.Debug(config.MsgPageCached,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handlePage serves the widget page with ETag revalidation.
func (s *WidgetServer) handlePage(w http.ResponseWriter, r *http.Request) {
	item := s.page.Load()

	w.Header().Set(config.HeaderContentType, config.MimeTextHTML)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type todayResponse struct {
	Today string `json:"today"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// handleAge computes the age for ?birth=YYYY-MM-DD against the server's today.
func (s *WidgetServer) handleAge(w http.ResponseWriter, r *http.Request) {
	birth, err := age.ParseDate(r.URL.Query().Get(config.QueryBirth))

	var b age.Breakdown
	if err == nil {
		b, err = age.Calculate(birth, age.Today(s.Clock))
	}
	s.metrics.ObserveCalculation(b, err)

	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *WidgetServer) handleToday(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, todayResponse{Today: age.Today(s.Clock).String()})
}

// handleCalendar exports the next birthdays of ?birth= as iCalendar.
func (s *WidgetServer) handleCalendar(w http.ResponseWriter, r *http.Request) {
	birth, err := age.ParseDate(r.URL.Query().Get(config.QueryBirth))

	var data []byte
	if err == nil {
		data, err = calendar.Build(birth, s.Clock.Now(), config.ICalUpcomingYears)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderContentDisposition, fmt.Sprintf(config.FormatICalDisposition, config.ICalFileName))
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	if _, err := w.Write(data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

func (s *WidgetServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{Status: config.StatusOK, Version: config.Version})
}

// writeError maps calculator errors to 400 responses; anything else is a 500.
func (s *WidgetServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := metrics.Outcome(err)
	status := http.StatusBadRequest
	var msg string

	var ve age.ValidationError
	switch {
	case errors.As(err, &ve):
		msg = ve.Message()
	case errors.Is(err, age.ErrInvalidDate):
		msg = config.ErrInvalidDate
	default:
		status = http.StatusInternalServerError
		msg = http.StatusText(status)
		slog.Error(config.MsgCalcFailed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}

	slog.Debug(config.MsgRequestRejected,
		config.LogKeyComponent, config.CompServer,
		config.LogKeyCode, code,
		config.LogKeyValue, r.URL.Query().Get(config.QueryBirth),
	)
	s.writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func (s *WidgetServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
