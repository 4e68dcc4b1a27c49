package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/bryanwahyu/privacy-prism/internal/infra/httpserver"
	"github.com/bryanwahyu/privacy-prism/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg, wiring{storage: true, journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	metrics := middleware.NewMetrics()
	a.service.Recorder = metrics

	checkers := map[string]middleware.HealthChecker{
		"completion": middleware.CheckFunc(func(context.Context) error { return a.client.Ready() }),
	}
	deps := httpserver.Deps{
		Analyzer:      a.service,
		Exporter:      a.exporter,
		Metrics:       metrics,
		Checkers:      checkers,
		CORSAllowlist: cfg.Server.CORSAllowlist,
		Info: httpserver.Info{
			Provider:          cfg.LLM.Provider,
			Model:             cfg.LLM.Model,
			SummaryModel:      cfg.LLM.SummaryModel,
			BaseURLConfigured: cfg.LLM.BaseURL != "",
			APIKeyConfigured:  cfg.APIKey() != "",
		},
	}
	if a.journal != nil {
		deps.Journal = a.journal
		checkers["journal"] = middleware.PingChecker{Ping: a.journal.Ping}
	}
	if a.store != nil {
		checkers["storage"] = middleware.PingChecker{Ping: a.store.Ping}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     httpserver.NewRouter(deps),
		ReadTimeout: 15 * time.Second,
		// two completion stages of up to 60s each
		WriteTimeout: 150 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// graceful shutdown
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	return nil
}
