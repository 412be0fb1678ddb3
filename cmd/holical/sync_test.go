package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"holical/internal/config"
	"holical/internal/ics"
	"holical/internal/model"
	"holical/internal/store"
)

func feedICS(uids ...string) string {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:-//test//EN\r\n")
	for _, uid := range uids {
		b.WriteString("BEGIN:VEVENT\r\nUID:" + uid + "\r\nDTSTAMP:20250101T000000Z\r\n" +
			"DTSTART;VALUE=DATE:20250310\r\nSUMMARY:" + uid + "\r\nEND:VEVENT\r\n")
	}
	b.WriteString("END:VCALENDAR\r\n")
	return b.String()
}

func newSyncApp(t *testing.T) *app {
	t.Helper()
	c := config.DefaultConfig()
	c.Database = memoryDatabase
	return &app{cfg: c, store: store.NewMemory()}
}

func TestSyncFeedsPrunesRemovedEvents(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "work.ics")
	write := func(body string) {
		t.Helper()
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	a := newSyncApp(t)
	sources := []ics.Source{
		{ID: "work", URL: path},
		{ID: "gone", URL: filepath.Join(dir, "gone.ics")},
	}

	manual, err := a.store.Create(ctx, model.Event{Title: "Dentist", StartDate: model.NewDate(2025, 3, 12)})
	if err != nil {
		t.Fatal(err)
	}
	// Belongs to a feed that fails to load below; it must survive.
	if _, err := a.store.Create(ctx, model.Event{ID: "other", Title: "Other", StartDate: model.NewDate(2025, 3, 1), Source: "gone"}); err != nil {
		t.Fatal(err)
	}

	write(feedICS("a@x", "b@x"))
	res, err := a.syncFeeds(ctx, sources)
	if err == nil {
		t.Fatal("expected the unreadable feed to be reported")
	}
	if res.Created != 2 || res.Deleted != 0 {
		t.Fatalf("unexpected first sync %+v", res)
	}

	write(feedICS("b@x"))
	res, _ = a.syncFeeds(ctx, sources)
	if res.Updated != 1 || res.Deleted != 1 {
		t.Fatalf("unexpected second sync %+v", res)
	}

	list, err := a.store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	ids := map[string]bool{}
	for _, ev := range list {
		ids[ev.ID] = true
	}
	if ids[ics.EventID("work", "a@x")] {
		t.Error("expected the removed feed event to be deleted")
	}
	if !ids[ics.EventID("work", "b@x")] || !ids[manual.ID] || !ids["other"] {
		t.Errorf("expected the remaining events to be kept, got %v", ids)
	}

	write(feedICS())
	if res, _ = a.syncFeeds(ctx, sources); res.Deleted != 1 {
		t.Errorf("expected an emptied feed to remove its last event, got %+v", res)
	}
}

func TestSyncFeedsSerializesRuns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "work.ics")
	if err := os.WriteFile(path, []byte(feedICS("a@x", "b@x", "c@x")), 0o600); err != nil {
		t.Fatal(err)
	}
	a := newSyncApp(t)
	sources := []ics.Source{{ID: "work", URL: path}}

	var wg sync.WaitGroup
	results := make([]syncResult, 4)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := a.syncFeeds(ctx, sources)
			if err != nil {
				t.Errorf("sync %d: %v", i, err)
			}
			results[i] = res
		}()
	}
	wg.Wait()

	created := 0
	for _, res := range results {
		created += res.Created
	}
	if created != 3 {
		t.Errorf("expected each event created once across runs, got %d", created)
	}
	if list, _ := a.store.List(context.Background()); len(list) != 3 {
		t.Errorf("expected 3 stored events, got %d", len(list))
	}
}
