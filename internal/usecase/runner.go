package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/macrolens/shelflife/internal/domain"
)

// Lookuper resolves a primary term and its variants to a match
type Lookuper interface {
	Lookup(ctx context.Context, primary string, variants ...string) (domain.Match, error)
}

// Runner checks a fixed list of test items against the dataset, one at a time
type Runner struct {
	lookup   Lookuper
	items    []domain.TestItem
	progress io.Writer
	logger   *zap.Logger
}

// NewRunner creates a runner over items. A non-nil progress writer receives a progress bar.
func NewRunner(lookup Lookuper, items []domain.TestItem, progress io.Writer, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		lookup:   lookup,
		items:    items,
		progress: progress,
		logger:   logger,
	}
}

// Items returns the test items in run order
func (r *Runner) Items() []domain.TestItem {
	return r.items
}

// Run matches every item in definition order and returns one outcome per item.
// An unmatched item is a normal outcome; only cancellation stops the run early.
func (r *Runner) Run(ctx context.Context) ([]domain.MatchOutcome, error) {
	bar := r.newProgressBar()

	outcomes := make([]domain.MatchOutcome, 0, len(r.items))
	for _, item := range r.items {
		match, err := r.lookup.Lookup(ctx, item.Name, item.Variants...)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", item.Name, err)
		}

		outcome := domain.NewMatchOutcome(item, match)
		outcomes = append(outcomes, outcome)

		r.logger.Debug("item checked",
			zap.String("item", item.Name),
			zap.Bool("matched", outcome.Matched),
			zap.String("match_type", string(outcome.MatchType)),
			zap.String("foodkeeper_id", outcome.FoodKeeperID))

		if bar != nil {
			if err := bar.Add(1); err != nil {
				r.logger.Warn("failed to update progress bar", zap.Error(err))
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			r.logger.Warn("failed to finish progress bar", zap.Error(err))
		}
	}

	return outcomes, nil
}

func (r *Runner) newProgressBar() *progressbar.ProgressBar {
	if r.progress == nil {
		return nil
	}
	return progressbar.NewOptions(len(r.items),
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Matching items"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(r.progress)
		}),
	)
}
