package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/macrolens/shelflife/config"
	"github.com/macrolens/shelflife/internal/domain"
	"github.com/macrolens/shelflife/internal/infrastructure/cache"
	"github.com/macrolens/shelflife/internal/infrastructure/foodkeeper"
	"github.com/macrolens/shelflife/internal/report"
)

// sampleDataset is a small product_data export covering a handful of the default items
const sampleDataset = `{
  "product_data": [
    {"id": 1, "name": "Milk", "keywords": "dairy milk, whole milk",
     "category_name_display_only": "Dairy Products & Eggs",
     "from_date_of_purchase_refrigerate_output_display_only": "5-7 Days",
     "freeze_output_display_only": "3 Months"},
    {"id": 2, "name": "Cheese, Cheddar", "keywords": "cheddar",
     "refrigerate_output_display_only": "6 Months"},
    {"id": 3, "name": "Bacon", "keywords": "bacon",
     "refrigerate_output_display_only": "1 Weeks"}
  ]
}`

// chdirTemp runs the test in an empty directory so no config.yaml or .env is picked up
func chdirTemp(t *testing.T) string {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
	return dir
}

func writeDataset(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "FoodKeeper.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDataset), 0o644))
	return path
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		Dataset: config.DatasetConfig{Path: filepath.Join(dir, "FoodKeeper.json"), ValidateSchema: true},
		Report:  config.ReportConfig{OutputDir: dir, Threshold: 0.80},
		Cache:   config.CacheConfig{Type: "memory"},
		Logging: config.LoggingConfig{Level: "error", Format: "console"},
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)

	var out bytes.Buffer
	summary, path, err := runCheck(context.Background(), testConfig(dir), report.NewPrinter(&out), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 50, summary.Total)
	assert.Equal(t, summary.Total, summary.Matched+summary.Unmatched)
	assert.False(t, summary.PassesThreshold)

	console := out.String()
	for _, want := range []string{
		"Initializing USDA FoodKeeper Test System...",
		"✓ Loaded FoodKeeper database",
		"  Products indexed: 3",
		"✓ Created test suite with 50 items",
		"Running tests...",
		"USDA FoodKeeper Shelf-Life Mapping Test Report",
		"✓ milk\n  Matched: Milk (ID: 1)\n  Match Type: Exact\n  Matched Term: milk\n  Refrigerate: 5-7 Days\n  Freeze: 3 Months\n",
		"Result: ✗ FAIL",
		"UNMATCHED ITEMS",
		"✓ Results saved to: " + path,
	} {
		assert.Contains(t, console, want)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc report.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Results, 50)
	assert.Equal(t, summary.Matched, doc.Statistics.MatchedItems)
	assert.Equal(t, filepath.Join(dir, "FoodKeeper.json"), doc.Metadata.Dataset)
	assert.Equal(t, "milk", doc.Results[0].TestItem)
	assert.Equal(t, domain.MatchExact, doc.Results[0].MatchType)
}

func TestRunCheckIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	cfg := testConfig(dir)

	first, _, err := runCheck(context.Background(), cfg, report.NewPrinter(&bytes.Buffer{}), nil, zap.NewNop())
	require.NoError(t, err)
	cfg.Report.OutputDir = filepath.Join(dir, "second")
	second, _, err := runCheck(context.Background(), cfg, report.NewPrinter(&bytes.Buffer{}), nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, first.Outcomes, second.Outcomes)
	assert.Equal(t, first.MatchTypes, second.MatchTypes)
	assert.Equal(t, first.Rate, second.Rate)
}

func TestRunCheckMissingDataset(t *testing.T) {
	dir := t.TempDir()

	var out bytes.Buffer
	cfg := testConfig(dir)
	_, _, err := runCheck(context.Background(), cfg, report.NewPrinter(&out), nil, zap.NewNop())
	require.ErrorIs(t, err, domain.ErrDatasetNotFound)

	printFailure(report.NewPrinter(&out), cfg, err)
	assert.Contains(t, out.String(), "✗ Error: Could not find "+cfg.Dataset.Path)
	assert.Contains(t, out.String(), "Please ensure the FoodKeeper JSON file is in the current directory")
}

func TestRunCheckExportFailure(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cfg := testConfig(dir)
	cfg.Report.OutputDir = filepath.Join(blocker, "results")

	_, _, err := runCheck(context.Background(), cfg, report.NewPrinter(&bytes.Buffer{}), nil, zap.NewNop())
	assert.ErrorIs(t, err, domain.ErrReportWrite)
}

func TestRootCommand(t *testing.T) {
	t.Run("exits zero on a failed threshold by default", func(t *testing.T) {
		dir := chdirTemp(t)
		writeDataset(t, dir)

		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--no-progress", "--log-level", "error"})

		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "Result: ✗ FAIL")

		matches, err := filepath.Glob(filepath.Join(dir, "foodkeeper_test_results_*.json"))
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("strict mode fails below the threshold", func(t *testing.T) {
		dir := chdirTemp(t)
		writeDataset(t, dir)

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--no-progress", "--log-level", "error", "--strict", "--output-dir", filepath.Join(dir, "out")})

		err := cmd.Execute()
		assert.True(t, errors.Is(err, errThresholdNotMet), "Execute() error = %v", err)
	})

	t.Run("strict mode passes with a low enough threshold", func(t *testing.T) {
		dir := chdirTemp(t)
		writeDataset(t, dir)

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--no-progress", "--log-level", "error", "--strict", "--threshold", "0.01"})

		assert.NoError(t, cmd.Execute())
	})

	t.Run("reports a missing dataset", func(t *testing.T) {
		chdirTemp(t)

		var out bytes.Buffer
		cmd := newRootCmd()
		cmd.SetOut(&out)
		cmd.SetArgs([]string{"--no-progress", "--log-level", "error", "--dataset", "missing.json"})

		err := cmd.Execute()
		assert.ErrorIs(t, err, errReported)
		assert.ErrorIs(t, err, domain.ErrDatasetNotFound)
		assert.Contains(t, out.String(), "Could not find missing.json")
	})

	t.Run("rejects an out of range threshold flag", func(t *testing.T) {
		chdirTemp(t)

		cmd := newRootCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetArgs([]string{"--threshold", "1.5"})

		err := cmd.Execute()
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "--threshold"))
	})
}

func TestDatasetSource(t *testing.T) {
	cfg := testConfig(t.TempDir())

	_, isFile := datasetSource(cfg, zap.NewNop()).(foodkeeper.FileSource)
	assert.True(t, isFile)

	cfg.Dataset.URL = "https://example.com/FoodKeeper.json"
	source := datasetSource(cfg, zap.NewNop())
	_, isClient := source.(*foodkeeper.Client)
	assert.True(t, isClient)
	assert.Equal(t, cfg.Dataset.URL, source.Describe())
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()

	t.Run("memory by default", func(t *testing.T) {
		c, closeCache := newCache(ctx, testConfig(t.TempDir()), zap.NewNop())
		defer closeCache()
		assert.IsType(t, &cache.MemoryCache{}, c)
	})

	t.Run("redis when reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)

		cfg := testConfig(t.TempDir())
		cfg.Cache.Type = "redis"
		cfg.Cache.RedisURL = "redis://" + mr.Addr()

		c, closeCache := newCache(ctx, cfg, zap.NewNop())
		defer closeCache()
		assert.IsType(t, &cache.RedisCache{}, c)
	})

	t.Run("falls back to memory when redis is down", func(t *testing.T) {
		cfg := testConfig(t.TempDir())
		cfg.Cache.Type = "redis"
		cfg.Cache.RedisURL = "redis://127.0.0.1:1"

		c, closeCache := newCache(ctx, cfg, zap.NewNop())
		defer closeCache()
		assert.IsType(t, &cache.MemoryCache{}, c)
	})
}
