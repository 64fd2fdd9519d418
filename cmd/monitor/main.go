package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"trade-monitorv1/config"
	"trade-monitorv1/internal/alertlog"
	"trade-monitorv1/internal/api"
	"trade-monitorv1/internal/gateway"
	"trade-monitorv1/internal/journal"
	"trade-monitorv1/internal/logger"
	"trade-monitorv1/internal/metrics"
	"trade-monitorv1/internal/monitor"
	"trade-monitorv1/internal/notification"
	"trade-monitorv1/internal/pricesource"
	"trade-monitorv1/internal/quotes"
	"trade-monitorv1/internal/registry"
)

func main() {
	cfg := config.Load()
	log := logger.Init("trade-monitor", parseLevel(cfg.LogLevel))
	log.Info("starting trade monitor")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// ---- Metrics & health ----
	prom := metrics.New()
	health := metrics.NewHealthStatus()
	metricsSrv := metrics.NewServer(cfg.MetricsAddr, health)
	metricsSrv.Start()

	// ---- Trade journal (SQLite) ----
	var jnl *journal.Journal
	var sqlDB *sql.DB
	if cfg.SQLitePath != "" {
		os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755)
		j, err := journal.Open(cfg.SQLitePath)
		if err != nil {
			log.Error("journal init failed", "path", cfg.SQLitePath, "err", err)
			os.Exit(1)
		}
		defer j.Close()
		jnl = j
		sqlDB = j.DB()
	}

	// ---- Quote cache (Redis) ----
	var cache *quotes.Cache
	if cfg.RedisAddr != "" {
		c, err := quotes.New(quotes.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn("redis init failed, continuing without quote cache", "err", err)
		} else {
			defer c.Close()
			cache = c
		}
	}
	health.StartLivenessChecker(ctx, cache.Client(), sqlDB, 10*time.Second)

	// ---- Trade registry ----
	var recorder registry.Recorder
	if jnl != nil {
		recorder = jnl
	}
	reg := registry.New(recorder)

	// ---- Price source ----
	var source pricesource.Source
	switch cfg.PriceSource {
	case "finnhub":
		source = pricesource.NewFinnhub(pricesource.FinnhubConfig{
			BaseURL: cfg.FinnhubBaseURL,
			APIKey:  cfg.FinnhubAPIKey,
		})
		log.Info("price source ready", "source", "finnhub")
	default:
		source = pricesource.NewSim(time.Now().UnixNano())
		log.Info("price source ready", "source", "sim")
	}

	// ---- Alert delivery ----
	notifiers := notification.Multi{notification.NewLogNotifier()}
	if cfg.AlertWebhookURL != "" {
		notifiers = append(notifiers, notification.NewWebhookNotifier(cfg.AlertWebhookURL))
	}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		notifiers = append(notifiers, notification.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID))
	}

	// ---- WebSocket hub & recent-alert ring ----
	hub := gateway.NewHub(log)
	alerts := alertlog.New(256)

	// ---- Monitor loop ----
	mon, err := monitor.New(
		monitor.Config{Interval: cfg.MonitorInterval},
		monitor.Deps{
			Registry: reg,
			Source:   source,
			Notifier: notifiers,
			Metrics:  prom,
			Health:   health,
			Quotes:   cache,
			Gateway:  hub,
			AlertLog: alerts,
			Log:      log,
		},
	)
	if err != nil {
		log.Error("monitor init failed", "err", err)
		os.Exit(1)
	}
	go mon.Run(ctx)

	// Drain the alert sink so in-process consumers can attach later without
	// blocking the monitor.
	go func() {
		for range mon.Alerts() {
		}
	}()

	// ---- HTTP API ----
	apiSrv := api.NewServer(cfg.APIAddr, api.Deps{
		Registry:   reg,
		Source:     source,
		Journal:    jnl,
		Hub:        hub,
		Metrics:    prom,
		AlertLog:   alerts,
		TOTPSecret: cfg.TOTPSecret,
		Log:        log,
	})
	apiSrv.Start()

	log.Info("trade monitor ready",
		"api_addr", cfg.APIAddr,
		"metrics_addr", cfg.MetricsAddr,
		"interval", cfg.MonitorInterval.String(),
	)

	// ---- Wait for shutdown signal ----
	<-sigCh
	log.Info("shutdown signal received")
	cancel()

	if !mon.Stop() {
		log.Warn("monitor did not stop within timeout")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	apiSrv.Stop(shutdownCtx)
	metricsSrv.Stop(shutdownCtx)

	log.Info("shutdown complete")
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
