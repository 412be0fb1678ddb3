package ics

import (
	"context"

	"go.uber.org/multierr"

	"holical/internal/model"
)

// Importer fetches sources and maps their VEVENTs onto events.
type Importer struct {
	Fetcher *Fetcher
	Options ImportOptions
}

// Batch holds the events of one source that loaded and parsed. A batch
// with no events means the feed is readable but currently empty.
type Batch struct {
	Source Source
	Events []model.Event
}

// Import returns the events of every readable source. Failing sources
// are reported together in the error while the rest are still returned.
func (im *Importer) Import(ctx context.Context, sources []Source) ([]model.Event, error) {
	batches, err := im.ImportBatches(ctx, sources)
	var out []model.Event
	for _, b := range batches {
		out = append(out, b.Events...)
	}
	return out, err
}

// ImportBatches is Import grouped by source. Sources that failed to load
// or parse have no batch.
func (im *Importer) ImportBatches(ctx context.Context, sources []Source) ([]Batch, error) {
	results, errs := im.Fetcher.FetchAll(ctx, sources)

	out := make([]Batch, 0, len(results))
	for _, res := range results {
		parsed, err := ParseICS(res.Source, res.Body)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		opts := im.Options
		if res.Source.Category != "" {
			opts.Category = res.Source.Category
		}
		out = append(out, Batch{Source: res.Source, Events: ToEvents(parsed, opts)})
	}
	return out, errs
}
