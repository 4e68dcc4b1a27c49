package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	appanalysis "github.com/bryanwahyu/privacy-prism/internal/application/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/domain/failures"
	"github.com/bryanwahyu/privacy-prism/internal/middleware"
)

// MaxBodyBytes leaves room for JSON framing around a maximal input.
const MaxBodyBytes = domain.MaxRawInputBytes + 64<<10

const pdfFilename = "privacy-analysis.pdf"

type Analyzer interface {
	Analyze(ctx context.Context, raw string, kind domain.SourceKind) (domain.Report, error)
}

type Exporter interface {
	Render(doc domain.Document) ([]byte, error)
	Export(ctx context.Context, doc domain.Document) (appanalysis.ExportResult, error)
}

// Info is what /api/health reports about the completion setup.
type Info struct {
	Provider          string
	Model             string
	SummaryModel      string
	BaseURLConfigured bool
	APIKeyConfigured  bool
}

type Deps struct {
	Analyzer Analyzer
	Exporter Exporter
	Info     Info

	// optional
	Journal       failures.Repository
	Metrics       *middleware.Metrics
	Checkers      map[string]middleware.HealthChecker
	CORSAllowlist []string
}

type Router struct {
	analyzer Analyzer
	exporter Exporter
	journal  failures.Repository
	info     Info
}

func NewRouter(d Deps) http.Handler {
	r := &Router{analyzer: d.Analyzer, exporter: d.Exporter, journal: d.Journal, info: d.Info}
	mux := chi.NewRouter()

	mux.Use(chimw.Recoverer)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.LoggingMiddleware)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSAllowlist,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition", middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/healthz", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.HealthHandler(d.Checkers))
	if d.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	mux.Route("/api", func(rt chi.Router) {
		rt.Get("/health", r.handleHealth)
		rt.Post("/analyze", r.wrap(r.handleAnalyze))
		rt.Post("/generate-pdf", r.wrap(r.handleGeneratePDF))
		rt.Post("/export", r.wrap(r.handleExport))
		rt.Get("/failures", r.wrap(r.handleFailures))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusError carries an explicit status and client-facing message.
type statusError struct {
	status int
	msg    string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(msg string) error { return &statusError{status: http.StatusBadRequest, msg: msg} }

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var (
			se       *statusError
			short    domain.InputTooShortError
			long     domain.InputTooLongError
			fetchErr *domain.SourceFetchError
			cfgErr   *ai.ConfigurationError
		)
		status, msg := http.StatusInternalServerError, err.Error()
		switch {
		case errors.As(err, &se):
			status = se.status
		case errors.As(err, &short), errors.As(err, &long), errors.As(err, &fetchErr):
			status = http.StatusBadRequest
		case errors.As(err, &cfgErr):
			status = http.StatusServiceUnavailable
		case errors.Is(err, appanalysis.ErrIncompleteDocument):
			status, msg = http.StatusBadRequest, "Missing content/results payload."
		case errors.Is(err, appanalysis.ErrStorageNotConfigured):
			status = http.StatusNotImplemented
		}

		if status >= http.StatusInternalServerError {
			log.Error().Err(err).
				Str("request_id", middleware.RequestIDFrom(req.Context())).
				Str("path", req.URL.Path).
				Msg("request failed")
		}
		writeJSON(w, status, map[string]string{"error": msg})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a JSON body capped at MaxBodyBytes.
func decode(w http.ResponseWriter, req *http.Request, v any) error {
	body := http.MaxBytesReader(w, req.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return domain.InputTooLongError{Length: int(mbe.Limit), Max: domain.MaxRawInputBytes}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		return badRequest("Invalid JSON body.")
	}
	return nil
}

// GET /api/health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "ok",
		"timestamp":         time.Now().UTC().Format(time.RFC3339Nano),
		"provider":          r.info.Provider,
		"model":             r.info.Model,
		"summaryModel":      r.info.SummaryModel,
		"baseUrlConfigured": r.info.BaseURLConfigured,
		"apiKeyConfigured":  r.info.APIKeyConfigured,
	})
}

// POST /api/analyze
// Body: {"input": "...", "type": "text"|"url"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Input string `json:"input"`
		Type  string `json:"type"`
	}
	if err := decode(w, req, &body); err != nil {
		return err
	}
	if body.Input == "" {
		return badRequest("Missing input field.")
	}

	report, err := r.analyzer.Analyze(req.Context(), body.Input, domain.ParseSourceKind(body.Type))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, report)
	return nil
}

// POST /api/generate-pdf
// Body: {"content": "...", "results": {"key": "text"}, "summary": "...", "timestamp": "..."}
func (r *Router) handleGeneratePDF(w http.ResponseWriter, req *http.Request) error {
	var doc domain.Document
	if err := decode(w, req, &doc); err != nil {
		return err
	}
	data, err := r.exporter.Render(doc)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pdfFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(data)
	return err
}

// POST /api/export
// Same body as generate-pdf; answers with a download link.
func (r *Router) handleExport(w http.ResponseWriter, req *http.Request) error {
	var doc domain.Document
	if err := decode(w, req, &doc); err != nil {
		return err
	}
	res, err := r.exporter.Export(req.Context(), doc)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, res)
	return nil
}

// GET /api/failures?limit=20
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	if r.journal == nil {
		return &statusError{status: http.StatusNotImplemented, msg: "failure journal is not configured"}
	}
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))

	list, err := r.journal.Recent(req.Context(), middleware.ValidateLimit(limit))
	if err != nil {
		return err
	}
	if list == nil {
		list = []*failures.Failure{}
	}
	writeJSON(w, http.StatusOK, list)
	return nil
}
