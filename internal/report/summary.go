// Package report aggregates match outcomes and renders them for people (console)
// and machines (timestamped JSON export).
package report

import "github.com/macrolens/shelflife/internal/domain"

// DefaultThreshold is the match rate a run needs to pass
const DefaultThreshold = 0.80

// Summarize counts matched and unmatched outcomes and breaks matches down by strategy.
// A non-positive threshold falls back to DefaultThreshold.
func Summarize(outcomes []domain.MatchOutcome, threshold float64) domain.RunSummary {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	summary := domain.RunSummary{
		Total:      len(outcomes),
		Threshold:  threshold,
		MatchTypes: make(map[domain.MatchType]int),
		Outcomes:   outcomes,
	}

	for _, o := range outcomes {
		if !o.Matched {
			continue
		}
		summary.Matched++
		if o.MatchType != "" {
			summary.MatchTypes[o.MatchType]++
		}
	}
	summary.Unmatched = summary.Total - summary.Matched

	if summary.Total > 0 {
		summary.Rate = float64(summary.Matched) / float64(summary.Total)
	}
	summary.PassesThreshold = summary.Rate >= threshold

	return summary
}
