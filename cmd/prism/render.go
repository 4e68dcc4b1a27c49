package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
	"github.com/bryanwahyu/privacy-prism/internal/infra/ai/prompt"
	"github.com/bryanwahyu/privacy-prism/internal/infra/render"
)

var (
	renderReport string
	renderOut    string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a saved analyze report to PDF",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderReport, "report", "", "report JSON written by analyze")
	renderCmd.Flags().StringVar(&renderOut, "out", "privacy-analysis.pdf", "output PDF path")
	_ = renderCmd.MarkFlagRequired("report")
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(renderReport)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}
	var report domain.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return fmt.Errorf("decode report: %w", err)
	}

	ts := report.CompletedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	doc := domain.DocumentFromReport(report, ts.UTC().Format(time.RFC1123))
	if doc.Content == "" || len(doc.Results) == 0 {
		return fmt.Errorf("report %s has no content or results", renderReport)
	}

	pdf, err := render.NewPDF(prompt.Default()).Render(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(renderOut, pdf, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	log.Info().Str("out", renderOut).Int("bytes", len(pdf)).Msg("report rendered")
	fmt.Fprintln(cmd.OutOrStdout(), renderOut)
	return nil
}
