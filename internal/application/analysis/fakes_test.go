package analysis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/domain/failures"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/prompt"
)

type call struct {
	Model    string
	Messages []ai.Message
}

// fakeClient answers by dimension. The synthesis call is recognised by its
// system instruction.
type fakeClient struct {
	mu        sync.Mutex
	calls     []call
	count     atomic.Int32
	readyErr  error
	catalog   *prompt.Catalog
	dimension func(ctx context.Context, key string, msgs []ai.Message) (ai.Completion, error)
	synthesis func(ctx context.Context, msgs []ai.Message) (ai.Completion, error)
}

func newFakeClient() *fakeClient {
	return &fakeClient{catalog: prompt.Default()}
}

func (f *fakeClient) Ready() error { return f.readyErr }

func (f *fakeClient) Complete(ctx context.Context, model string, msgs []ai.Message) (ai.Completion, error) {
	f.count.Add(1)
	f.mu.Lock()
	f.calls = append(f.calls, call{Model: model, Messages: msgs})
	f.mu.Unlock()

	if msgs[0].Content == f.catalog.SynthesisInstruction() {
		if f.synthesis != nil {
			return f.synthesis(ctx, msgs)
		}
		return ai.Completion{Text: "overall posture: medium"}, nil
	}
	key := f.keyFor(msgs[0].Content)
	if f.dimension != nil {
		return f.dimension(ctx, key, msgs)
	}
	return ai.Completion{Text: "ok " + key, Usage: ai.Usage{TotalTokens: 5}}, nil
}

func (f *fakeClient) keyFor(system string) string {
	for _, key := range f.catalog.Keys() {
		p, _ := f.catalog.Profile(key)
		if p.SystemInstruction == system {
			return key
		}
	}
	return ""
}

func (f *fakeClient) snapshot() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]call, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeClient) synthesisCall() (call, bool) {
	for _, c := range f.snapshot() {
		if c.Messages[0].Content == f.catalog.SynthesisInstruction() {
			return c, true
		}
	}
	return call{}, false
}

type fakeSource struct {
	text string
	err  error
	urls []string
}

func (s *fakeSource) Fetch(ctx context.Context, url string) (string, error) {
	s.urls = append(s.urls, url)
	return s.text, s.err
}

type fakeRecorder struct {
	mu         sync.Mutex
	dimensions map[domain.Status]int
	synthesis  []domain.Status
	analyses   []domain.SourceKind
}

func (r *fakeRecorder) ObserveDimension(o domain.DimensionOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dimensions == nil {
		r.dimensions = map[domain.Status]int{}
	}
	r.dimensions[o.Status]++
}

func (r *fakeRecorder) ObserveSynthesis(o domain.SynthesisOutcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.synthesis = append(r.synthesis, o.Status)
}

func (r *fakeRecorder) ObserveAnalysis(source domain.SourceKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses = append(r.analyses, source)
}

type fakeJournal struct {
	mu      sync.Mutex
	saved   []*failures.Failure
	saveErr error
}

func (j *fakeJournal) Save(ctx context.Context, f *failures.Failure) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saved = append(j.saved, f)
	return j.saveErr
}

func (j *fakeJournal) Recent(ctx context.Context, limit int) ([]*failures.Failure, error) {
	return nil, errors.New("not implemented")
}

func (j *fakeJournal) Ping(ctx context.Context) error { return nil }

// ghostCatalog lists a key the underlying catalog does not know.
type ghostCatalog struct {
	*prompt.Catalog
}

func (g ghostCatalog) Keys() []string { return append(g.Catalog.Keys(), "ghost") }
