package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/macrolens/shelflife/config"
	"github.com/macrolens/shelflife/internal/domain"
	"github.com/macrolens/shelflife/internal/logger"
	"github.com/macrolens/shelflife/internal/report"
	"github.com/macrolens/shelflife/internal/usecase"
)

// errReported marks failures already shown on the console
var errReported = errors.New("run failed")

func progressWriter(cmd *cobra.Command, flags *rootFlags) io.Writer {
	if flags.noProgress {
		return nil
	}
	return cmd.ErrOrStderr()
}

func runCheckCommand(ctx context.Context, cfg *config.Config, out, progress io.Writer) error {
	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	printer := report.NewPrinter(out)

	summary, _, err := runCheck(ctx, cfg, printer, progress, log)
	if err != nil {
		printFailure(printer, cfg, err)
		log.Error("run failed", zap.Error(err))
		return fmt.Errorf("%w: %w", errReported, err)
	}

	if cfg.Report.Strict && !summary.PassesThreshold {
		return errThresholdNotMet
	}
	return nil
}

// runCheck loads the dataset, matches the default items, prints the report
// and exports it. It returns the summary and the results file path.
func runCheck(ctx context.Context, cfg *config.Config, printer *report.Printer, progress io.Writer, log *zap.Logger) (domain.RunSummary, string, error) {
	var summary domain.RunSummary

	_ = printer.Linef("Initializing USDA FoodKeeper Test System...")
	_ = printer.Banner()

	records, source, err := loadDataset(ctx, cfg, log)
	if err != nil {
		return summary, "", err
	}
	_ = printer.Success("Loaded FoodKeeper database")
	_ = printer.Detail("Products indexed: %d", len(records))

	service, closeCache := newShelfLifeService(ctx, cfg, records, log)
	defer closeCache()

	runner := usecase.NewRunner(service, usecase.DefaultTestItems(), progress, log)
	_ = printer.Success("Created test suite with %d items", len(runner.Items()))

	_ = printer.Linef("\nRunning tests...")
	outcomes, err := runner.Run(ctx)
	if err != nil {
		return summary, "", err
	}

	summary = report.Summarize(outcomes, cfg.Report.Threshold)
	_ = printer.Linef("")
	if err := printer.PrintReport(summary, time.Now()); err != nil {
		return summary, "", fmt.Errorf("failed to print report: %w", err)
	}

	path, err := report.NewExporter(cfg.Report.OutputDir).Export(summary, source.Describe())
	if err != nil {
		return summary, "", err
	}
	_ = printer.Linef("")
	_ = printer.Success("Results saved to: %s", path)

	log.Info("run complete",
		zap.Int("total", summary.Total),
		zap.Int("matched", summary.Matched),
		zap.Float64("match_rate", summary.RatePercent()),
		zap.Bool("passes_threshold", summary.PassesThreshold),
		zap.String("results", path))

	return summary, path, nil
}

func printFailure(printer *report.Printer, cfg *config.Config, err error) {
	if errors.Is(err, domain.ErrDatasetNotFound) {
		location := cfg.Dataset.Path
		if cfg.Dataset.URL != "" {
			location = cfg.Dataset.URL
		}
		_ = printer.Failure("Error: Could not find %s", location)
		_ = printer.Detail("Please ensure the FoodKeeper JSON file is in the current directory")
		return
	}
	_ = printer.Failure("Error: %v", err)
}
