package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/privacy-prism/internal/application"
	appanalysis "github.com/bryanwahyu/privacy-prism/internal/application/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/config"
	"github.com/bryanwahyu/privacy-prism/internal/domain/ai"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/anthropic"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/openai"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/prompt"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/transport"
	"github.com/bryanwahyu/privacy-prism/internal/infra/db"
	"github.com/bryanwahyu/privacy-prism/internal/infra/render"
	"github.com/bryanwahyu/privacy-prism/internal/infra/source"
	"github.com/bryanwahyu/privacy-prism/internal/infra/storage"
)

// app holds the wired collaborators shared by the commands.
type app struct {
	cfg      *config.Config
	client   ai.Client
	catalog  *prompt.Catalog
	service  *appanalysis.Service
	exporter *appanalysis.Exporter
	store    *storage.Store
	journal  db.Journal
}

type wiring struct {
	storage bool
	journal bool
}

func buildApp(ctx context.Context, cfg *config.Config, w wiring) (*app, error) {
	httpClient := transport.NewHTTPClient(cfg.LLM.Proxy, cfg.LLM.Timeout)
	client, err := newCompletionClient(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	if err := client.Ready(); err != nil {
		// serve still starts; analyses fail with 503 until the key is set
		log.Warn().Err(err).Str("provider", cfg.LLM.Provider).Msg("completion credential missing")
	}

	catalog := prompt.Default()
	clock := application.SystemClock{}
	a := &app{
		cfg:     cfg,
		client:  client,
		catalog: catalog,
		service: &appanalysis.Service{
			Catalog: catalog,
			Client:  client,
			Source:  source.New(source.DefaultTimeout, source.WithHTTPClient(httpClient)),
			Models: appanalysis.Models{
				Default:    cfg.LLM.Model,
				Synthesis:  cfg.LLM.SummaryModel,
				Dimensions: cfg.DimensionModels(),
			},
			Clock: clock,
		},
		exporter: &appanalysis.Exporter{Renderer: render.NewPDF(catalog), Clock: clock},
	}

	if w.storage && cfg.StorageEnabled() {
		store, err := storage.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return nil, fmt.Errorf("minio init: %w", err)
		}
		a.store = store
		a.exporter.Store = store
	}

	if w.journal && cfg.JournalEnabled() {
		j, err := db.OpenJournal(ctx, cfg.Journal.Driver, cfg.Journal.DSN)
		if err != nil {
			return nil, fmt.Errorf("failure journal: %w", err)
		}
		a.journal = j
		a.service.Journal = j
	}

	log.Info().
		Str("provider", cfg.LLM.Provider).
		Str("model", cfg.LLM.Model).
		Str("summary_model", cfg.LLM.SummaryModel).
		Bool("storage", a.store != nil).
		Bool("journal", a.journal != nil).
		Msg("privacy prism configured")
	return a, nil
}

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			log.Warn().Err(err).Msg("journal close")
		}
	}
}

func newCompletionClient(cfg *config.Config, hc *http.Client) (ai.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		return openai.NewClient(openai.Options{
			APIKey:      cfg.LLM.OpenAIAPIKey,
			BaseURL:     cfg.LLM.BaseURL,
			HTTPClient:  hc,
			Temperature: float32(cfg.LLM.Temperature),
			MaxTokens:   cfg.LLM.MaxTokens,
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewClient(anthropic.Options{
			APIKey:      cfg.LLM.AnthropicAPIKey,
			BaseURL:     cfg.LLM.BaseURL,
			HTTPClient:  hc,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q (allowed: openai, anthropic)", cfg.LLM.Provider)
	}
}
