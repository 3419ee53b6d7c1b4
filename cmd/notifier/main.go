package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizbook_notifier/internal/app"
	"bizbook_notifier/internal/domain/kv"
	"bizbook_notifier/internal/infra/config"
	idb "bizbook_notifier/internal/infra/database"
	"bizbook_notifier/internal/infra/logger"
	"bizbook_notifier/internal/infra/platform"
	"bizbook_notifier/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config error: " + err.Error() + "\n")
		os.Exit(2)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	mainLogger := log.WithField("component", "main")
	mainLogger.Infof("Configuration loaded. Store driver: %s, Environment: %s", cfg.StoreDriver, cfg.Environment)

	ctx := context.Background()

	// Persistent key-value store.
	var store kv.Store
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()
		repo := idb.NewPostgresKVRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			mainLogger.WithError(err).Fatal("Could not prepare database schema")
		}
		store = repo
	default:
		repo, err := idb.OpenSQLiteKVRepository(ctx, cfg.SQLitePath)
		if err != nil {
			mainLogger.WithError(err).Fatal("Could not open sqlite store")
		}
		defer repo.Close()
		store = repo
	}
	mainLogger.Info("Key-value store ready.")

	// Telegram bot: delivery sink plus the settings commands.
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			log.WithError(err).Error("Telebot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	sink := telegram.NewTelebotSink(bot, cfg.OwnerChatID)
	sched := platform.NewCronScheduler(sink, log.WithField("component", "platform"))

	// Engine services.
	settingsService := app.NewSettingsServiceImpl(store, sched, log.WithField("component", "settings"))
	recurringService := app.NewRecurringServiceImpl(sched, log.WithField("component", "recurring"))
	dispatchService := app.NewDispatchServiceImpl(sched, log.WithField("component", "dispatch"))
	progressService := app.NewProgressServiceImpl(store, dispatchService, log.WithField("component", "progress"))
	engine := app.NewEngine(settingsService, recurringService, progressService, log.WithField("component", "engine"))

	telegram.RegisterBotCommands(ctx, bot, engine, cfg.OwnerChatID, log.WithField("component", "telegram"))
	mainLogger.Info("Settings command handlers registered.")

	sched.Start()
	if err := engine.OnAppStart(ctx); err != nil {
		// Startup degradation is not fatal; the next settings change or
		// restart is the recovery path.
		mainLogger.WithError(err).Warn("Startup trigger installation failed")
	}
	mainLogger.Info("Recurring triggers installed. Bot is starting...")

	go bot.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down...")
	bot.Stop()
	sched.Stop()
	mainLogger.Info("Shut down gracefully.")
}
