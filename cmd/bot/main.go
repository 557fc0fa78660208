package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"formsquizbot/internal/config"
	"formsquizbot/internal/gforms"
	"formsquizbot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	creds := &gforms.FileCredentialSource{
		CredentialsPath: cfg.CredentialsFile,
		TokenPath:       cfg.TokenFile,
	}
	client, err := gforms.NewClient(ctx, creds)
	if err != nil {
		sugar.Fatalw("forms client init failed", "err", err)
	}
	orchestrator := gforms.NewOrchestrator(client, sugar)

	bot, err := telegram.NewBot(cfg.TelegramToken, orchestrator, cfg.TempDir, sugar)
	if err != nil {
		sugar.Fatalw("bot init failed", "err", err)
	}

	sugar.Infow("bot starting")
	bot.Start(ctx)
	sugar.Infow("bot stopped")
}

func newLogger(mode string) (*zap.Logger, error) {
	switch strings.ToLower(mode) {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
