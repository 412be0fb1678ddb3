package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appLog "holical/internal/log"
	"holical/internal/schedule"
	"holical/internal/web"
)

var (
	serveListen string
	feedSync    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, the month view and the background jobs",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&feedSync, "feed-sync", "@every 30m", "cron spec for re-importing ICS feeds; empty disables")
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveListen != "" {
		cfg.Listen = serveListen
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cfg, true)
	if err != nil {
		return err
	}
	defer a.Close()

	sched := schedule.New(cfg.Location())
	caches := []schedule.Clearer{a.source, a.translator}
	if cfg.Holidays.Refresh != "" {
		if err := sched.AddPurge(cfg.Holidays.Refresh, caches...); err != nil {
			return err
		}
	}
	if feedSync != "" && len(cfg.ICS) > 0 {
		err := sched.Add("feed-sync", feedSync, func() {
			if _, err := a.syncFeeds(ctx, a.icsSources()); err != nil {
				appLog.Error("feed sync had failures", err)
			}
		})
		if err != nil {
			return err
		}
		// syncFeeds holds a lock, so a tick that lands during this run waits.
		go func() {
			if _, err := a.syncFeeds(ctx, a.icsSources()); err != nil {
				appLog.Error("initial feed sync had failures", err)
			}
		}()
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
	}()
	if next, ok := sched.Next(); ok {
		appLog.Info("scheduler started", "jobs", sched.Len(), "next_run", next.Format(time.RFC3339))
	}

	srv := web.NewServer(cfg, web.Deps{
		Store:     a.store,
		Assembler: a.assembler,
		Holidays:  a.holidays,
		Caches:    caches,
	})
	if err := web.StartServer(ctx, cfg.Listen, srv); err != nil {
		return err
	}
	appLog.Info("holical exiting")
	return nil
}
