package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

var (
	analyzeText string
	analyzeFile string
	analyzeURL  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one piece of content and print the report as JSON",
	Long: `Analyze runs every privacy dimension over the given content, then the
synthesis stage, and prints the report. Exactly one of --text, --file or --url
is required. Completion failures are part of the report; only configuration,
input and URL errors make the command fail.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "content to analyze")
	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "read content from a file")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "fetch and analyze a web page")
	analyzeCmd.MarkFlagsMutuallyExclusive("text", "file", "url")
	analyzeCmd.MarkFlagsOneRequired("text", "file", "url")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	raw, kind := analyzeText, domain.SourceText
	switch {
	case analyzeFile != "":
		b, err := os.ReadFile(analyzeFile)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		raw = string(b)
	case analyzeURL != "":
		raw, kind = analyzeURL, domain.SourceURL
	}
	if raw == "" {
		return errors.New("missing input")
	}

	ctx := cmd.Context()
	a, err := buildApp(ctx, cfg, wiring{journal: true})
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.service.Analyze(ctx, raw, kind)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
