package analysis

import (
	"context"
	"time"
)

// Catalog is the read-only prompt table.
type Catalog interface {
	Profile(key string) (DimensionProfile, error)
	Keys() []string
	RenderUserMessage(key, content string) (string, error)
	SynthesisInstruction() string
	RenderSynthesisMessage(content string, outcomes []DimensionOutcome) string
}

// ContentSource turns a URL into plain text.
type ContentSource interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Renderer turns a finished analysis into a downloadable document.
type Renderer interface {
	Render(doc Document) ([]byte, error)
	ContentType() string
}

// DocumentStore keeps exported documents and hands out download links.
type DocumentStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (url string, expiresAt time.Time, err error)
}

// Recorder observes settled outcomes, e.g. for metrics.
type Recorder interface {
	ObserveDimension(o DimensionOutcome)
	ObserveSynthesis(o SynthesisOutcome, elapsed time.Duration)
	ObserveAnalysis(source SourceKind)
}
