package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/JurrevE/pararius-monitor/pkg/config"
	"github.com/JurrevE/pararius-monitor/pkg/extract"
	"github.com/JurrevE/pararius-monitor/pkg/fetch"
	"github.com/JurrevE/pararius-monitor/pkg/logger"
	"github.com/JurrevE/pararius-monitor/pkg/monitor"
	"github.com/JurrevE/pararius-monitor/pkg/notify"
	"github.com/JurrevE/pararius-monitor/pkg/seenset"
	"github.com/JurrevE/pararius-monitor/pkg/sources"
	"github.com/JurrevE/pararius-monitor/pkg/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using system environment")
	}

	cfg, err := config.Load("config.toml")
	if err != nil {
		slog.Error("fatal: couldn't load config", slog.Any("err", err))
		os.Exit(1)
	}

	logger.InitLogger(cfg)

	var archive storage.Archive
	if cfg.DSN != "" {
		db, err := sql.Open("postgres", cfg.DSN)
		if err != nil {
			slog.Error("fatal: couldn't open archive database", slog.Any("err", err))
			os.Exit(1)
		}
		if err := storage.RunMigrations(db); err != nil {
			slog.Error("fatal: failed to run archive migrations", slog.Any("err", err))
			os.Exit(1)
		}
		archive = storage.NewPostgresArchive(db)
		defer archive.Close()
	}

	monitors := buildMonitors(cfg, archive)
	if len(monitors) == 0 {
		slog.Error("fatal: no sources configured (set [pararius]/[funda] sources or PARARIUS_SEARCH_URL_X / FUNDA_SEARCH_URL)")
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	var wg sync.WaitGroup
	for _, m := range monitors {
		wg.Add(1)
		go func(m *monitor.Monitor) {
			defer wg.Done()
			m.Run(ctx)
		}(m)
	}

	srv := newStatusServer(cfg, monitors)
	go func() {
		slog.Info("status server listening", slog.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("status server failed", slog.Any("err", err))
		}
	}()

	appSignal := make(chan os.Signal, 1)
	signal.Notify(appSignal, syscall.SIGINT, syscall.SIGTERM)

	s := <-appSignal
	slog.Info("received system signal", slog.String("signal", s.String()))
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("status server shutdown failed", slog.Any("err", err))
	}

	wg.Wait()
	slog.Info("shutdown complete")
}

func buildMonitors(cfg *config.Config, archive storage.Archive) []*monitor.Monitor {
	fetcher := fetch.NewHTTPFetcher(cfg.Politeness.GetFetchTimeout(), cfg.Politeness.RespectRobots)

	var notifier notify.Notifier
	if cfg.Twilio.Complete() {
		notifier = notify.NewTwilioNotifier(cfg.Twilio)
	} else {
		slog.Warn("Twilio credentials not set, notifications will only be logged")
		notifier = notify.LogNotifier{}
	}

	sites := []struct {
		name      string
		site      config.SiteConfig
		extractor extract.Extractor
	}{
		{"pararius", cfg.Pararius, extract.NewPararius()},
		{"funda", cfg.Funda, extract.NewFunda()},
	}

	var monitors []*monitor.Monitor
	for _, s := range sites {
		if len(s.site.Sources) == 0 {
			slog.Info("monitor not started, no sources configured", slog.String("monitor", s.name))
			continue
		}

		prepared, err := sources.Prepare(s.site.Sources)
		if err != nil {
			slog.Error("monitor not started, no usable sources", slog.String("monitor", s.name), slog.Any("err", err))
			continue
		}

		monitors = append(monitors, monitor.New(
			monitor.Options{
				Name:        s.name,
				Sources:     prepared,
				Interval:    cfg.Monitor.GetCheckInterval(),
				Jitter:      cfg.Monitor.JitterFraction,
				SourceDelay: cfg.Politeness.GetSourceDelay(),
				NotifyDelay: cfg.Politeness.GetNotifyDelay(),
			},
			fetcher,
			s.extractor,
			notifier,
			seenset.NewFileStore(s.site.DataFile),
			archive,
		))
	}

	return monitors
}
