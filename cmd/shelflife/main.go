package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/macrolens/shelflife/config"
)

var version = "dev"

// errThresholdNotMet makes a strict run exit non-zero without printing another error
var errThresholdNotMet = errors.New("match rate below threshold")

type rootFlags struct {
	configFile string
	logLevel   string
	logFormat  string
	dataset    string
	datasetURL string
	outputDir  string
	threshold  float64
	strict     bool
	noProgress bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "shelflife",
		Short: "Check how much of a grocery list the USDA FoodKeeper database can answer",
		Long: `shelflife loads the USDA FoodKeeper dataset, matches a fixed list of 50 grocery
items against it (exact name, keyword, then substring) and reports whether at
least the configured share of items has shelf-life data.

Results are printed to the console and saved as a timestamped JSON file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runCheckCommand(cmd.Context(), cfg, cmd.OutOrStdout(), progressWriter(cmd, flags))
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "config file (default: ./config.yaml, ./config/config.yaml or /etc/shelflife/config.yaml)")
	pf.StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.logFormat, "log-format", "console", "log format (console, json)")
	pf.StringVar(&flags.dataset, "dataset", "", "path to the FoodKeeper JSON file")
	pf.StringVar(&flags.datasetURL, "dataset-url", "", "download the FoodKeeper JSON from this URL instead of reading a file")

	cmd.Flags().StringVar(&flags.outputDir, "output-dir", "", "directory for the results file")
	cmd.Flags().Float64Var(&flags.threshold, "threshold", 0, "match rate needed to pass, between 0 and 1")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with status 1 when the threshold is not met")
	cmd.Flags().BoolVar(&flags.noProgress, "no-progress", false, "hide the progress bar")

	cmd.AddCommand(newServeCmd(flags))

	return cmd
}

// loadConfig reads the config layers and applies any flags the user set explicitly
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configFile)
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	if changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Logging.Format = flags.logFormat
	}
	if changed("dataset") {
		cfg.Dataset.Path = flags.dataset
		cfg.Dataset.URL = ""
	}
	if changed("dataset-url") {
		cfg.Dataset.URL = flags.datasetURL
	}
	if changed("output-dir") {
		cfg.Report.OutputDir = flags.outputDir
	}
	if changed("threshold") {
		if flags.threshold <= 0 || flags.threshold > 1 {
			return nil, fmt.Errorf("--threshold must be in (0, 1], got %v", flags.threshold)
		}
		cfg.Report.Threshold = flags.threshold
	}
	if changed("strict") {
		cfg.Report.Strict = flags.strict
	}

	return cfg, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, errThresholdNotMet) && !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
