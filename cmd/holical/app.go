package main

import (
	"fmt"
	"path/filepath"
	"sync"

	"holical/internal/calendar"
	"holical/internal/config"
	"holical/internal/holiday"
	"holical/internal/i18n"
	"holical/internal/ics"
	appLog "holical/internal/log"
	"holical/internal/store"
)

// memoryDatabase as the database setting selects the in-memory store.
const memoryDatabase = "memory"

// app holds the long-lived collaborators built from the config.
type app struct {
	cfg        *config.Config
	store      store.EventStore
	source     *holiday.Source
	translator *i18n.Translator
	holidays   *holiday.Service
	assembler  *calendar.Assembler

	syncMu sync.Mutex
}

// newApp wires the holiday sources and translations. The event store is
// opened only when withStore is set.
func newApp(c *config.Config, withStore bool) (*app, error) {
	rules, err := holiday.NewRuleBackend()
	if err != nil {
		return nil, err
	}
	if c.Holidays.RulesFile != "" {
		if err := rules.LoadFile(c.Holidays.RulesFile); err != nil {
			return nil, fmt.Errorf("holiday rules: %w", err)
		}
		appLog.Info("loaded holiday rules", "path", c.Holidays.RulesFile)
	}
	// Library-backed countries win; rule files cover the rest.
	source := holiday.NewSource(holiday.NewCalBackend(), rules)

	var loader i18n.Loader = i18n.EmbeddedLoader()
	if c.TranslationsDir != "" {
		loader = i18n.ChainLoader{i18n.DirLoader(c.TranslationsDir), i18n.EmbeddedLoader()}
	}
	translator := i18n.NewTranslator(loader)

	svc := &holiday.Service{Source: source, Translator: translator}
	a := &app{
		cfg:        c,
		source:     source,
		translator: translator,
		holidays:   svc,
		assembler: &calendar.Assembler{
			Holidays:          svc,
			FirstWeekday:      c.FirstWeekday,
			Location:          c.Location(),
			CountryFromLocale: c.Holidays.CountryFromLocale,
		},
	}

	if withStore && c.Database == memoryDatabase {
		appLog.Warn("using the in-memory event store; events are lost on exit")
		a.store = store.NewMemory()
	} else if withStore {
		st, err := store.OpenSQLite(c.Database)
		if err != nil {
			return nil, fmt.Errorf("open event store: %w", err)
		}
		a.store = st
	}
	return a, nil
}

func (a *app) Close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		appLog.Error("failed to close event store", err)
	}
}

func (a *app) icsSources() []ics.Source {
	out := make([]ics.Source, 0, len(a.cfg.ICS))
	for _, s := range a.cfg.ICS {
		out = append(out, ics.Source{ID: s.ID, URL: s.URL, Category: s.Category})
	}
	return out
}

func (a *app) importer() *ics.Importer {
	cacheDir := ""
	if a.cfg.Database != memoryDatabase {
		cacheDir = filepath.Join(filepath.Dir(a.cfg.Database), "ics-cache")
	}
	return &ics.Importer{
		Fetcher: ics.NewFetcher(cacheDir),
		Options: ics.ImportOptions{Location: a.cfg.Location()},
	}
}
