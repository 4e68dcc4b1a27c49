package analysis

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/privacy-prism/internal/application"
	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

// Models resolves which model serves each stage.
type Models struct {
	Default    string
	Synthesis  string
	Dimensions map[string]string
}

// ForDimension returns the per-dimension override, else the default.
func (m Models) ForDimension(key string) string {
	if v := m.Dimensions[key]; v != "" {
		return v
	}
	return m.Default
}

func (m Models) ForSynthesis() string {
	if m.Synthesis != "" {
		return m.Synthesis
	}
	return m.Default
}

// Runner executes exactly one dimension. Run never returns an error: every
// failure, including an unknown key, becomes a rejected outcome.
type Runner struct {
	Catalog domain.Catalog
	Client  ai.Client
	Models  Models
	Clock   application.Clock
}

func (r *Runner) Run(ctx context.Context, key, content string) (out domain.DimensionOutcome) {
	started := r.Clock.Now()
	model := r.Models.ForDimension(key)
	profile := domain.DimensionProfile{Key: key}

	defer func() {
		if p := recover(); p != nil {
			out = domain.Failed(profile, model, fmt.Errorf("dimension %s panicked: %v", key, p), started, r.Clock.Now())
		}
		logSettled(out)
	}()

	profile, err := r.Catalog.Profile(key)
	if err != nil {
		profile = domain.DimensionProfile{Key: key}
		return domain.Failed(profile, model, err, started, r.Clock.Now())
	}
	user, err := r.Catalog.RenderUserMessage(key, content)
	if err != nil {
		return domain.Failed(profile, model, err, started, r.Clock.Now())
	}

	completion, err := r.Client.Complete(ctx, model, []ai.Message{
		{Role: ai.RoleSystem, Content: profile.SystemInstruction},
		{Role: ai.RoleUser, Content: user},
	})
	if err != nil {
		return domain.Failed(profile, model, err, started, r.Clock.Now())
	}
	return domain.Succeeded(profile, model, completion, started, r.Clock.Now())
}

func logSettled(o domain.DimensionOutcome) {
	ev := log.Info()
	if !o.OK() {
		ev = log.Warn().Str("error", o.Error)
	}
	ev.Str("dimension", o.Key).
		Str("model", o.Model).
		Str("status", string(o.Status)).
		Dur("duration", o.Duration()).
		Msg("dimension settled")
}
