package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/macrolens/shelflife/internal/domain"
)

// Metadata identifies one exported run
type Metadata struct {
	RunID      string  `json:"run_id"`
	TestDate   string  `json:"test_date"`
	Hypothesis string  `json:"hypothesis"`
	Threshold  float64 `json:"threshold"`
	Dataset    string  `json:"dataset"`
}

// Statistics holds the summary figures of an exported run
type Statistics struct {
	TotalItems      int            `json:"total_items"`
	MatchedItems    int            `json:"matched_items"`
	UnmatchedItems  int            `json:"unmatched_items"`
	MatchRate       float64        `json:"match_rate"`
	PassesThreshold bool           `json:"passes_threshold"`
	MatchTypes      map[string]int `json:"match_types"`
}

// Document is the on-disk layout of a results file
type Document struct {
	Metadata   Metadata              `json:"metadata"`
	Statistics Statistics            `json:"statistics"`
	Results    []domain.MatchOutcome `json:"results"`
}

// Exporter writes results files named foodkeeper_test_results_YYYYMMDD_HHMMSS.json
type Exporter struct {
	outputDir string
	now       func() time.Time
	newRunID  func() string
}

// NewExporter creates an exporter writing into outputDir
func NewExporter(outputDir string) *Exporter {
	if outputDir == "" {
		outputDir = "."
	}
	return &Exporter{
		outputDir: outputDir,
		now:       time.Now,
		newRunID:  func() string { return uuid.New().String() },
	}
}

// NewDocument assembles the export document for summary
func NewDocument(summary domain.RunSummary, meta Metadata) Document {
	matchTypes := make(map[string]int, len(summary.MatchTypes))
	for mt, n := range summary.MatchTypes {
		matchTypes[string(mt)] = n
	}

	results := summary.Outcomes
	if results == nil {
		results = []domain.MatchOutcome{}
	}

	return Document{
		Metadata: meta,
		Statistics: Statistics{
			TotalItems:      summary.Total,
			MatchedItems:    summary.Matched,
			UnmatchedItems:  summary.Unmatched,
			MatchRate:       summary.RatePercent(),
			PassesThreshold: summary.PassesThreshold,
			MatchTypes:      matchTypes,
		},
		Results: results,
	}
}

// Export writes summary to a new timestamped file and returns its path.
// dataset names where the records came from.
func (e *Exporter) Export(summary domain.RunSummary, dataset string) (string, error) {
	now := e.now()
	doc := NewDocument(summary, Metadata{
		RunID:      e.newRunID(),
		TestDate:   now.Format(time.RFC3339),
		Hypothesis: Hypothesis(summary.Threshold),
		Threshold:  summary.Threshold,
		Dataset:    dataset,
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: encoding results: %v", domain.ErrReportWrite, err)
	}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrReportWrite, err)
	}

	path := filepath.Join(e.outputDir, fmt.Sprintf("foodkeeper_test_results_%s.json", now.Format("20060102_150405")))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrReportWrite, err)
	}

	return path, nil
}
