package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"car-scraper/config"
	"car-scraper/health"
	"car-scraper/notifier"
	"car-scraper/scraper"
	"car-scraper/services"
	"car-scraper/storage"
	"car-scraper/utils"
)

func main() {
	logger := utils.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Configuration error: %v", err)
		if errors.Is(err, config.ErrMissingSecret) {
			logger.Error("Set TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID in the environment or .env")
		}
		os.Exit(1)
	}
	logger.SetDebug(cfg.LogLevel == "debug")

	logger.Info("=== Car listings bot starting ===")
	logger.Info("Config — price %d-%d | max owners %d | interval %v | sites %v | fetch %s | store %s",
		cfg.Filter.MinPrice, cfg.Filter.MaxPrice, cfg.Filter.MaxOwners,
		cfg.CheckInterval, cfg.Sites, cfg.FetchMode, cfg.SeenStore)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open seen-set store: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	ids, err := store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load seen-set, starting empty: %v", err)
	}
	seen := utils.NewSeenSet(ids...)
	logger.Info("Loaded %d seen listing ids", seen.Size())

	var tg *notifier.Telegram
	retry := utils.RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, Logger: logger}
	err = retry.Do(ctx, "telegram connect", func() error {
		var err error
		tg, err = notifier.NewTelegram(notifier.TelegramOptions{
			Token:       cfg.TelegramToken,
			ChatID:      cfg.TelegramChatID,
			MinInterval: cfg.NotifyInterval,
		})
		return err
	})
	if err != nil {
		logger.Error("Failed to connect to Telegram: %v", err)
		os.Exit(1)
	}
	logger.Info("Authorized on Telegram as @%s", tg.BotName())

	fetcher, closeFetcher, err := scraper.NewFetcher(cfg)
	if err != nil {
		logger.Error("Failed to create fetcher: %v", err)
		os.Exit(1)
	}
	defer closeFetcher()

	adapters, err := scraper.Adapters(cfg, fetcher, logger)
	if err != nil {
		logger.Error("Failed to build site adapters: %v", err)
		os.Exit(1)
	}
	collectors := make([]services.Collector, 0, len(adapters))
	for _, a := range adapters {
		collectors = append(collectors, a)
	}

	orchestrator := services.NewOrchestrator(collectors, services.NewFilter(cfg.Filter), tg, store, seen, logger)
	scheduler := services.NewScheduler(orchestrator, cfg.CheckInterval, logger)

	go func() {
		if err := health.Serve(ctx, ":"+cfg.Port, logger); err != nil {
			logger.Error("Health server stopped: %v", err)
		}
	}()

	if err := tg.Send(ctx, services.FormatStartup()); err != nil {
		logger.Warn("Startup message not delivered: %v", err)
	}

	utils.Supervise(ctx, "scheduler", scheduler.Run, utils.DefaultBackoff(), logger)

	logger.Info("=== Shutdown complete ===")
}
