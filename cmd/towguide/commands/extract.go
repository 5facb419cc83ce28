package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/stonebridge-motors/towguide/internal/extract"
	"github.com/stonebridge-motors/towguide/internal/guide"
	"github.com/stonebridge-motors/towguide/internal/pdf"
)

var (
	extractPDFPath    string
	extractOutputPath string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a towing guide PDF into a structured JSON document",
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractPDFPath, "pdf", "p", "", "path to the towing guide PDF (defaults to config)")
	extractCmd.Flags().StringVarP(&extractOutputPath, "output", "o", "", "output path for the JSON document (defaults to config)")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg)

	pdfPath := extractPDFPath
	if pdfPath == "" {
		pdfPath = cfg.Guide.PDFPath
	}
	outputPath := extractOutputPath
	if outputPath == "" {
		outputPath = cfg.Guide.DocumentPath
	}

	profile, err := guide.ProfileForYear(cfg.Guide.Year)
	if err != nil {
		return err
	}

	source, err := pdf.OpenSource(pdfPath)
	if err != nil {
		return err
	}
	defer source.Close()

	runID := uuid.NewString()
	logger = logger.WithRun(runID)
	logger.Info().Str("pdf", pdfPath).Int("year", profile.Year).Msg("extraction started")

	bar := progressbar.NewOptions(source.Tokens.PageCount(),
		progressbar.OptionSetDescription("reading pages"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(os.Stderr, "\n")
		}),
	)

	extractor := extract.NewExtractor(profile, source.Tokens, source.Text, logger)
	extractor.PageHook = func(page int) {
		_ = bar.Add(1)
	}

	start := time.Now()
	doc, err := extractor.Run(ctx, pdfPath)
	_ = bar.Finish()
	if err != nil {
		color.Red("✗ extraction failed: %v", err)
		return err
	}

	if err := doc.Save(outputPath); err != nil {
		return fmt.Errorf("save document: %w", err)
	}

	logger.Info().Int("models", len(doc.Models)).Dur("duration", time.Since(start)).Msg("extraction finished")
	color.Green("✓ extracted %d models to %s", len(doc.Models), outputPath)
	return nil
}
