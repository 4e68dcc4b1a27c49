package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/privacy-prism/internal/application"
	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

// ErrStorageNotConfigured is returned by Export when no document store is wired.
var ErrStorageNotConfigured = errors.New("document storage is not configured")

// ErrIncompleteDocument rejects documents missing content or results.
var ErrIncompleteDocument = errors.New("missing content/results payload")

// Exporter renders finished analyses and optionally stores them.
type Exporter struct {
	Renderer domain.Renderer
	Store    domain.DocumentStore
	Clock    application.Clock
}

type ExportResult struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (e *Exporter) Render(doc domain.Document) ([]byte, error) {
	if strings.TrimSpace(doc.Content) == "" || len(doc.Results) == 0 {
		return nil, ErrIncompleteDocument
	}
	return e.Renderer.Render(doc)
}

// Export renders the document and uploads it, returning a download link.
func (e *Exporter) Export(ctx context.Context, doc domain.Document) (ExportResult, error) {
	if e.Store == nil {
		return ExportResult{}, ErrStorageNotConfigured
	}
	data, err := e.Render(doc)
	if err != nil {
		return ExportResult{}, err
	}

	now := time.Now()
	if e.Clock != nil {
		now = e.Clock.Now()
	}
	key := fmt.Sprintf("reports/%s/%s.pdf", now.UTC().Format("2006/01/02"), uuid.NewString())

	url, expires, err := e.Store.Put(ctx, key, data, e.Renderer.ContentType())
	if err != nil {
		return ExportResult{}, fmt.Errorf("store report: %w", err)
	}
	return ExportResult{Key: key, URL: url, ExpiresAt: expires}, nil
}
