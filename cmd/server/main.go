package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ignatzorin/fairlance-backend/internal/app"
	"github.com/ignatzorin/fairlance-backend/internal/config"
	"github.com/ignatzorin/fairlance-backend/internal/logger"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if cfg.Env == "development" {
		logger.SetTextFormatter()
	}

	if err := app.Serve(ctx, cfg); err != nil {
		logger.Log.WithError(err).Fatal("main: сервер остановлен с ошибкой")
	}
}
