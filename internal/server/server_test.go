package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// newTestServer returns a server whose "today" is December 31st, 2024.
func newTestServer() *WidgetServer {
	return NewWidgetServer("0", MockClock{CurrentTime: time.Date(2024, time.December, 31, 12, 0, 0, 0, time.UTC)})
}

func get(t *testing.T, srv *WidgetServer, target string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	resp := w.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// -----------------------------------------------------------------------------
// Widget Page
// -----------------------------------------------------------------------------

func TestHandler_ServingPage(t *testing.T) {
	srv := newTestServer()

	resp := get(t, srv, "/", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextHTML, resp.Header.Get(config.HeaderContentType))
	assert.Equal(t, config.MimeNoSniff, resp.Header.Get(config.HeaderXContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderCacheControl), "no-cache")
	assert.NotEmpty(t, resp.Header.Get(config.HeaderETag))

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `type="date"`)
	assert.Contains(t, string(body), config.RouteAge)
}

// TestHandler_Caching verifies that the page honours If-None-Match.
func TestHandler_Caching(t *testing.T) {
	srv := newTestServer()

	etag := get(t, srv, "/", nil).Header.Get(config.HeaderETag)
	require.NotEmpty(t, etag, "Server must provide an ETag")

	resp := get(t, srv, "/", map[string]string{config.HeaderIfNoneMatch: etag})
	assert.Equal(t, http.StatusNotModified, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Empty(t, body, "Body must be empty on 304 Not Modified")

	// A new page invalidates the old tag.
	srv.Update([]byte("<html>v2</html>"))
	resp = get(t, srv, "/", map[string]string{config.HeaderIfNoneMatch: etag})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

// -----------------------------------------------------------------------------
// JSON API
// -----------------------------------------------------------------------------

func TestAPI_Age(t *testing.T) {
	tests := []struct {
		name       string
		birth      string
		wantStatus int
		wantCode   string
		wantError  string
		want       age.Breakdown
	}{
		{
			name:       "Regular",
			birth:      "2000-05-15",
			wantStatus: http.StatusOK,
			want: age.Breakdown{
				Years: 24, Months: 7, Days: 16,
				Message: "You are 24 years, 7 months, and 16 days old.",
			},
		},
		{
			name:       "Birthday",
			birth:      "1990-12-31",
			wantStatus: http.StatusOK,
			want: age.Breakdown{
				Years:           34,
				Message:         config.MsgBirthdayGreeting,
				IsBirthdayToday: true,
			},
		},
		{
			name:       "Future date",
			birth:      "2025-01-01",
			wantStatus: http.StatusBadRequest,
			wantCode:   config.CodeFutureDate,
			wantError:  config.MsgFutureDate,
		},
		{
			name:       "Missing date",
			birth:      "",
			wantStatus: http.StatusBadRequest,
			wantCode:   config.CodeEmptyInput,
			wantError:  config.MsgEmptyInput,
		},
		{
			name:       "Malformed date",
			birth:      "2023-02-29",
			wantStatus: http.StatusBadRequest,
			wantCode:   config.CodeInvalidDate,
			wantError:  config.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer()
			resp := get(t, srv, config.RouteAge+"?birth="+tt.birth, nil)

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, config.MimeJSON, resp.Header.Get(config.HeaderContentType))

			if tt.wantStatus != http.StatusOK {
				var body errorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantCode, body.Code)
				assert.Equal(t, tt.wantError, body.Error)
				return
			}

			var got age.Breakdown
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPI_AgeWireFormat(t *testing.T) {
	srv := newTestServer()
	resp := get(t, srv, config.RouteAge+"?birth=1990-12-31", nil)

	var raw map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, true, raw["isBirthdayToday"])
	assert.Equal(t, 34.0, raw["years"])
}

func TestAPI_AgeCountsOutcomes(t *testing.T) {
	srv := newTestServer()

	get(t, srv, config.RouteAge+"?birth=1990-12-31", nil)
	get(t, srv, config.RouteAge+"?birth=2030-01-01", nil)

	m := srv.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues(config.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues(config.CodeFutureDate)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Birthdays))

	resp := get(t, srv, config.RouteMetrics, nil)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), config.MetricNamespace+"_"+config.MetricCalculations)
}

func TestAPI_Today(t *testing.T) {
	resp := get(t, newTestServer(), config.RouteToday, nil)

	var body todayResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "2024-12-31", body.Today)
}

func TestAPI_Health(t *testing.T) {
	resp := get(t, newTestServer(), config.RouteHealth, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, config.StatusOK, body.Status)
}

func TestCalendarFeed(t *testing.T) {
	srv := newTestServer()

	resp := get(t, srv, config.RouteICal+"?birth=2000-05-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, config.MimeTextCalendar, resp.Header.Get(config.HeaderContentType))
	assert.Contains(t, resp.Header.Get(config.HeaderContentDisposition), config.ICalFileName)

	body, _ := io.ReadAll(resp.Body)
	ics := string(body)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Contains(t, ics, "SUMMARY:Birthday (25)")
	assert.Equal(t, config.ICalUpcomingYears, strings.Count(ics, "BEGIN:VEVENT"))

	resp = get(t, srv, config.RouteICal+"?birth=2099-01-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// -----------------------------------------------------------------------------
// Concurrency Tests (Race Detection)
// -----------------------------------------------------------------------------

// TestConcurrentPageUpdates hammers Update while serving the page.
func TestConcurrentPageUpdates(t *testing.T) {
	srv := newTestServer()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			srv.Update([]byte(fmt.Sprintf("<html>%d</html>", i)))
		}(i)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}()
	}
	wg.Wait()
}

// -----------------------------------------------------------------------------
// Lifecycle
// -----------------------------------------------------------------------------

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("0"))
	assert.NoError(t, ValidatePort(config.DefaultPort))
	assert.ErrorContains(t, ValidatePort(""), config.ErrPortRequired)
	assert.ErrorContains(t, ValidatePort("http"), config.ErrPortRange)
	assert.ErrorContains(t, ValidatePort("70000"), config.ErrPortRange)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	srv := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- srv.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * config.ShutdownTimeout):
		t.Fatal("server did not stop after context cancellation")
	}
}

func TestStart_PortBusy(t *testing.T) {
	l, err := net.Listen("tcp", config.LocalhostBindAddr+":0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()

	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)

	srv := NewWidgetServer(port, MockClock{CurrentTime: time.Now()})
	err = srv.Start(context.Background())
	assert.ErrorContains(t, err, config.ErrServerStartup)
}
