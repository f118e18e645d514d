package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studylog/internal/config"
	"studylog/internal/notifier"
	"studylog/internal/repository"
	"studylog/internal/server"
	"studylog/internal/throttle"
	"studylog/internal/token"
)

func main() {
	// Load configuration
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "configs/config.yml"
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		panic(err)
	}

	logger := newLogger(cfg.Logger.Level)
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Token codec: one secret, one lifetime, fixed for the process.
	codec, err := token.NewCodec(cfg.Auth.JWTSecret, cfg.TokenTTL())
	if err != nil {
		logger.Fatal("Failed to initialize token codec", zap.Error(err))
	}

	loginThrottle := throttle.New(cfg.Throttle.MaxAttempts, cfg.ThrottleWindow())

	// Telegram alerting is optional; without it throttle blocks are
	// only logged.
	var alerts notifier.Notifier = notifier.Noop{}
	if cfg.Alerts.Enabled {
		tg, err := notifier.NewTelegram(cfg.Alerts.TelegramBotToken, cfg.Alerts.TelegramChatID, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram alerts, continuing without them", zap.Error(err))
		} else {
			alerts = tg
		}
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.NewServer(db, codec, loginThrottle, alerts, logger)
	go srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}

func newLogger(level string) *zap.Logger {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
