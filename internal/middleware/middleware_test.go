package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/post/1", false},
		{"http://news.example.org", false},
		{"https://93.184.216.34/", false},
		{"", true},
		{"ftp://example.com", true},
		{"javascript:alert(1)", true},
		{"https://", true},
		{"http://localhost:8080", true},
		{"http://api.localhost", true},
		{"http://127.0.0.1", true},
		{"http://0.0.0.0", true},
		{"http://[::1]/", true},
		{"http://10.1.2.3", true},
		{"http://172.20.0.1", true},
		{"http://192.168.1.1", true},
		{"http://169.254.169.254/latest/meta-data", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "abc\tdef", SanitizeString("  a\x00b\x07c\tdef \r "))
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-3))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(500))
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tea", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short and stout", rec.Body.String())
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsRecorder(t *testing.T) {
	m := NewMetrics()
	start := time.Now()

	m.ObserveAnalysis(domain.SourceURL)
	m.ObserveDimension(domain.DimensionOutcome{Key: "exposure", Status: domain.StatusFulfilled, StartedAt: start, CompletedAt: start.Add(time.Second)})
	m.ObserveDimension(domain.DimensionOutcome{Key: "inference", Status: domain.StatusRejected, StartedAt: start, CompletedAt: start})
	m.ObserveSynthesis(domain.SynthesisOutcome{Status: domain.StatusFulfilled}, 2*time.Second)

	out := scrape(t, m)
	assert.Contains(t, out, `prism_analyses_total{source="url"} 1`)
	assert.Contains(t, out, `prism_dimension_outcomes_total{dimension="exposure",status="fulfilled"} 1`)
	assert.Contains(t, out, `prism_dimension_outcomes_total{dimension="inference",status="rejected"} 1`)
	assert.Contains(t, out, `prism_synthesis_outcomes_total{status="fulfilled"} 1`)
	assert.Contains(t, out, `prism_synthesis_duration_seconds_count 1`)
	assert.Contains(t, out, `prism_dimension_duration_seconds_count{dimension="exposure"} 1`)
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := NewMetrics()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	for _, id := range []string{"1", "2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items/"+id, nil))
		require.Equal(t, http.StatusAccepted, rec.Code)
	}

	out := scrape(t, m)
	assert.Contains(t, out, `prism_http_requests_total{method="GET",route="/api/items/{id}",status="202"} 2`)
	assert.Contains(t, out, `prism_http_requests_in_flight 0`)
}

func TestHealthHandler(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := HealthHandler(map[string]HealthChecker{
			"llm": CheckFunc(func(context.Context) error { return nil }),
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		var body HealthStatus
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Status)
		assert.Equal(t, "healthy", body.Checks["llm"].Status)
	})

	t.Run("one failing check", func(t *testing.T) {
		h := HealthHandler(map[string]HealthChecker{
			"llm": CheckFunc(func(context.Context) error { return nil }),
			"journal": PingChecker{Ping: func(ctx context.Context) error {
				_, ok := ctx.Deadline()
				assert.True(t, ok)
				return errors.New("connection refused")
			}},
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "connection refused"))
	})
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())
}
