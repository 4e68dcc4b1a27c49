package analysis

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/privacy-prism/internal/application"
	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/domain/failures"
)

const (
	previewChars   = 260
	journalTimeout = 5 * time.Second
)

// Service is the orchestrator: it normalizes input, fans out one task per
// catalog dimension, joins on all of them, then runs the synthesis stage.
// It holds only read-only collaborators and is safe for concurrent use.
type Service struct {
	Catalog domain.Catalog
	Client  ai.Client
	Source  domain.ContentSource
	Models  Models
	Clock   application.Clock

	// optional
	Recorder domain.Recorder
	Journal  failures.Repository
}

// Analyze runs one full orchestration. Only configuration, validation and
// source-fetch errors are returned; completion failures live in the report.
func (s *Service) Analyze(ctx context.Context, raw string, kind domain.SourceKind) (domain.Report, error) {
	if err := s.Client.Ready(); err != nil {
		return domain.Report{}, err
	}

	req, source, err := s.Normalize(ctx, raw, kind)
	if err != nil {
		return domain.Report{}, err
	}
	if s.Recorder != nil {
		s.Recorder.ObserveAnalysis(req.Source)
	}

	// keep going when the caller disconnects; every call is bounded by its own timeout
	runCtx := context.WithoutCancel(ctx)

	started := s.clock().Now()
	outcomes := s.fanOut(runCtx, req.Content)
	synthesis := s.Synthesize(runCtx, req.Content, outcomes)
	completed := s.clock().Now()

	report := Assemble(uuid.NewString(), req.Content, source, outcomes, synthesis, started, completed)
	s.journal(runCtx, report)

	log.Info().
		Str("report_id", report.ID).
		Str("source", string(req.Source)).
		Int("dimensions", len(outcomes)).
		Int("failed", countFailed(outcomes)).
		Str("summary", string(synthesis.Status)).
		Int64("elapsed_ms", report.ElapsedMs).
		Msg("analysis complete")

	return report, nil
}

// Normalize trims the input, resolves URL sources and enforces length bounds.
func (s *Service) Normalize(ctx context.Context, raw string, kind domain.SourceKind) (domain.Request, domain.SourceInfo, error) {
	if len(raw) > domain.MaxRawInputBytes {
		return domain.Request{}, domain.SourceInfo{}, domain.InputTooLongError{Length: len(raw), Max: domain.MaxRawInputBytes}
	}

	content := strings.TrimSpace(raw)
	info := domain.SourceInfo{Type: kind, Provided: raw}

	if kind == domain.SourceURL {
		text, err := s.fetch(ctx, content)
		if err != nil {
			return domain.Request{}, info, err
		}
		content = strings.TrimSpace(text)
		info.ExtractedPreview = truncateRunes(content, previewChars)
	}

	if n := utf8.RuneCountInString(content); n < domain.MinContentChars {
		return domain.Request{}, info, domain.InputTooShortError{Length: n, Min: domain.MinContentChars}
	}
	content = truncateRunes(content, domain.MaxContentChars)
	info.Length = utf8.RuneCountInString(content)

	return domain.Request{Content: content, Source: kind}, info, nil
}

func (s *Service) fetch(ctx context.Context, url string) (string, error) {
	if s.Source == nil {
		return "", &domain.SourceFetchError{URL: url, Msg: "URL sources are not configured."}
	}
	text, err := s.Source.Fetch(ctx, url)
	if err != nil {
		var sfe *domain.SourceFetchError
		if errors.As(err, &sfe) {
			return "", sfe
		}
		return "", &domain.SourceFetchError{URL: url, Err: err}
	}
	return text, nil
}

// fanOut starts every dimension concurrently and waits for all of them to
// settle. Outcomes are indexed by catalog position, not completion order.
func (s *Service) fanOut(ctx context.Context, content string) []domain.DimensionOutcome {
	runner := &Runner{Catalog: s.Catalog, Client: s.Client, Models: s.Models, Clock: s.clock()}
	keys := s.Catalog.Keys()
	outcomes := make([]domain.DimensionOutcome, len(keys))

	// tasks never return an error, so Wait is a plain join
	var g errgroup.Group
	for i, key := range keys {
		g.Go(func() error {
			outcomes[i] = runner.Run(ctx, key, content)
			if s.Recorder != nil {
				s.Recorder.ObserveDimension(outcomes[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Synthesize runs the cross-dimension stage over every outcome, failed ones
// included. A failure here is captured, never returned.
func (s *Service) Synthesize(ctx context.Context, content string, outcomes []domain.DimensionOutcome) domain.SynthesisOutcome {
	model := s.Models.ForSynthesis()
	started := s.clock().Now()

	completion, err := s.Client.Complete(ctx, model, []ai.Message{
		{Role: ai.RoleSystem, Content: s.Catalog.SynthesisInstruction()},
		{Role: ai.RoleUser, Content: s.Catalog.RenderSynthesisMessage(content, outcomes)},
	})

	var out domain.SynthesisOutcome
	if err != nil {
		out = domain.SynthesisFailed(model, err)
		log.Warn().Str("model", model).Err(err).Msg("synthesis failed")
	} else {
		out = domain.SynthesisSucceeded(model, completion)
	}
	if s.Recorder != nil {
		s.Recorder.ObserveSynthesis(out, s.clock().Now().Sub(started))
	}
	return out
}

func (s *Service) journal(ctx context.Context, r domain.Report) {
	if s.Journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, journalTimeout)
	defer cancel()

	now := s.clock().Now()
	var entries []*failures.Failure
	for _, o := range r.Outcomes() {
		if o.OK() {
			continue
		}
		entries = append(entries, &failures.Failure{
			ReportID:  r.ID,
			Stage:     failures.StageDimension,
			Dimension: o.Key,
			Model:     o.Model,
			Message:   o.Error,
			CreatedAt: now,
		})
	}
	if !r.Synthesis.OK() {
		entries = append(entries, &failures.Failure{
			ReportID:  r.ID,
			Stage:     failures.StageSynthesis,
			Model:     r.Synthesis.Model,
			Message:   r.Synthesis.Error,
			CreatedAt: now,
		})
	}
	for _, f := range entries {
		if err := s.Journal.Save(ctx, f); err != nil {
			log.Error().Err(err).Str("report_id", r.ID).Str("stage", string(f.Stage)).Msg("failure journal write failed")
		}
	}
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func countFailed(outcomes []domain.DimensionOutcome) int {
	n := 0
	for _, o := range outcomes {
		if !o.OK() {
			n++
		}
	}
	return n
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos]
		}
		i++
	}
	return s
}
