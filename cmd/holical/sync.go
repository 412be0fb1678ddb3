package main

import (
	"context"
	"errors"

	"go.uber.org/multierr"

	"holical/internal/ics"
	appLog "holical/internal/log"
	"holical/internal/model"
	"holical/internal/store"
)

// syncResult counts what one feed sync changed.
type syncResult struct {
	Created int
	Updated int
	Deleted int
}

// syncFeeds imports every configured feed and upserts the events by their
// derived IDs. Events a readable feed no longer lists are deleted; stored
// events of feeds that fail to load are kept. Calls are serialized.
func (a *app) syncFeeds(ctx context.Context, sources []ics.Source) (res syncResult, err error) {
	if len(sources) == 0 {
		return res, nil
	}
	a.syncMu.Lock()
	defer a.syncMu.Unlock()

	batches, importErr := a.importer().ImportBatches(ctx, sources)
	err = importErr

	var stored []model.Event
	if len(batches) > 0 {
		var lerr error
		if stored, lerr = a.store.List(ctx); lerr != nil {
			return res, multierr.Append(err, lerr)
		}
	}

	events := 0
	for _, b := range batches {
		events += len(b.Events)
		seen := make(map[string]struct{}, len(b.Events))
		for _, ev := range b.Events {
			seen[ev.ID] = struct{}{}
			err = multierr.Append(err, a.upsert(ctx, ev, &res))
		}
		for _, ev := range stored {
			if ev.Source != b.Source.ID {
				continue
			}
			if _, ok := seen[ev.ID]; ok {
				continue
			}
			if derr := a.store.Delete(ctx, ev.ID); derr != nil && !errors.Is(derr, store.ErrNotFound) {
				err = multierr.Append(err, derr)
				continue
			}
			res.Deleted++
		}
	}

	appLog.Info("feed sync finished",
		"sources", len(sources),
		"events", events,
		"created", res.Created,
		"updated", res.Updated,
		"deleted", res.Deleted,
		"errors", len(multierr.Errors(err)),
	)
	return res, err
}

func (a *app) upsert(ctx context.Context, ev model.Event, res *syncResult) error {
	_, err := a.store.Get(ctx, ev.ID)
	switch {
	case err == nil:
		if _, err := a.store.Update(ctx, ev); err != nil {
			return err
		}
		res.Updated++
	case errors.Is(err, store.ErrNotFound):
		if _, err := a.store.Create(ctx, ev); err != nil {
			return err
		}
		res.Created++
	default:
		return err
	}
	return nil
}
