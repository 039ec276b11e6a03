package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mutualfund-bot/config"
	"mutualfund-bot/data/catalog"
	"mutualfund-bot/data/repository/ledgerfile"
	"mutualfund-bot/internal/httpserver"
	"mutualfund-bot/internal/service/fundService"
	"mutualfund-bot/internal/transport/webhook"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	fundCatalog := catalog.MustLoad(cfg)

	ledgerRepo := ledgerfile.New(cfg)

	fundSrv := fundService.New(fundCatalog, ledgerRepo)

	ctrl := webhook.NewController(cfg, fundSrv)

	server := httpserver.New(cfg, ctrl)
	server.Start()
	defer server.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-interrupt
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
