package nominations

import (
	"context"
	"fmt"

	"github.com/Adda-Baaj/dyk-notifier/internal/domain"
	"github.com/Adda-Baaj/dyk-notifier/internal/extract"
	"github.com/Adda-Baaj/dyk-notifier/internal/logger"
)

// Aggregator builds the contributor to nomination mapping for the surviving nominations.
type Aggregator struct {
	reader    PageReader
	batchSize int
	log       logger.Logger
}

// NewAggregator wires an aggregator with the page reader used for content batches.
func NewAggregator(reader PageReader, batchSize int, log logger.Logger) *Aggregator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Aggregator{reader: reader, batchSize: batchSize, log: logger.Ensure(log)}
}

// Collect extracts contributors from every nomination in set. When a contributor is credited
// on several nominations, the one processed last wins, so each contributor gets one notice per run.
func (a *Aggregator) Collect(ctx context.Context, set *WorkingSet) (domain.Targets, error) {
	if a == nil || a.reader == nil {
		return nil, fmt.Errorf("aggregator is not initialized")
	}

	targets := domain.Targets{}
	batches := SplitIntoBatches(set.IDs(), a.batchSize)

	for i, batch := range batches {
		if err := ctx.Err(); err != nil {
			return targets, fmt.Errorf("aggregate: batch %d/%d: %w", i+1, len(batches), err)
		}

		pages, err := a.reader.QueryPages(ctx, batch, domain.FieldContent)
		if err != nil {
			return targets, fmt.Errorf("aggregate: batch %d/%d: %w", i+1, len(batches), err)
		}

		for _, page := range pages {
			if !page.HasContent {
				a.log.DebugObj("nomination has no content", "nomination", page.Title)
				continue
			}
			found, extracted := extract.Contributors(page.Content, page.Title)
			if !found {
				a.log.DebugObj("nomination has no signature block", "nomination", page.Title)
				continue
			}
			a.log.DebugObj("contributors extracted", "extraction", map[string]any{
				"nomination":   page.Title,
				"contributors": len(extracted),
			})
			targets.Merge(extracted)
		}

		a.log.InfoObj("aggregate batch processed", "aggregate_batch", map[string]any{
			"batch":   i + 1,
			"batches": len(batches),
			"pages":   len(pages),
			"targets": len(targets),
		})
	}

	return targets, nil
}
