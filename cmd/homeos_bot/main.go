package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/homeos_backend/internal/bot"
	"github.com/SscSPs/homeos_backend/pkg/config"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadBotConfig()
	if err != nil {
		logger.Error("Failed to load bot config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Error("Failed to create bot", slog.String("error", err.Error()))
		os.Exit(1)
	}
	api.Debug = cfg.Debug
	logger.Info("Bot authorized", slog.String("username", api.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	bot.NewLauncher(api, cfg.WebAppURL, logger).Run(ctx, updates)

	api.StopReceivingUpdates()
	logger.Info("Bot stopped")
}
