package nominations

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
)

// PageReader fetches page snapshots for a pipe-joined batch of titles.
type PageReader interface {
	QueryPages(ctx context.Context, titles string, fields ...domain.PageField) ([]domain.PageSnapshot, error)
}

// Stage is one pruning pass over the working set.
type Stage struct {
	Name   string
	Fields []domain.PageField
	Prune  Predicate
}

var (
	// ResolvedStage prunes nominations already passed or failed.
	ResolvedStage = Stage{Name: "resolved", Fields: []domain.PageField{domain.FieldCategories}, Prune: IsResolved}
	// SelfNominationStage prunes nominations made by the article's own contributor.
	SelfNominationStage = Stage{Name: "self_nominated", Fields: []domain.PageField{domain.FieldContent}, Prune: IsSelfNominated}
)

// Filter runs pruning stages over a working set in batches.
type Filter struct {
	reader    PageReader
	batchSize int
	log       logger.Logger
}

// NewFilter wires a filter with the page reader used for every batch.
func NewFilter(reader PageReader, batchSize int, log logger.Logger) *Filter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Filter{reader: reader, batchSize: batchSize, log: logger.Ensure(log)}
}

// Run removes every nomination the stage's predicate matches and returns how many were removed.
// Batches come from a snapshot taken before the pass, so removals never disturb iteration.
// A failed read stops the pass; nominations removed by earlier batches stay removed.
func (f *Filter) Run(ctx context.Context, set *WorkingSet, stage Stage) (int, error) {
	if f == nil || f.reader == nil {
		return 0, fmt.Errorf("filter is not initialized")
	}
	if stage.Prune == nil || len(stage.Fields) == 0 {
		return 0, fmt.Errorf("stage %q is incomplete", stage.Name)
	}

	batches := SplitIntoBatches(set.IDs(), f.batchSize)
	removed := 0

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return removed, fmt.Errorf("%s: batch %d/%d: %w", stage.Name, i+1, len(batches), err)
		}

		pages, err := f.reader.QueryPages(ctx, batch, stage.Fields...)
		if err != nil {
			return removed, fmt.Errorf("%s: batch %d/%d: %w", stage.Name, i+1, len(batches), err)
		}

		batchRemoved := 0
		for _, page := range pages {
			if stage.Prune(page) && set.Remove(page.Title) {
				batchRemoved++
			}
		}
		removed += batchRemoved

		f.log.InfoObj("filter batch processed", "filter_batch", map[string]any{
			"stage":     stage.Name,
			"batch":     i + 1,
			"batches":   len(batches),
			"pages":     len(pages),
			"removed":   batchRemoved,
			"remaining": set.Len(),
		})
	}

	return removed, nil
}
