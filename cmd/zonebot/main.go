package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"zonebot/adapters/cloudflare"
	"zonebot/adapters/telegram_notifier"
	"zonebot/adapters/telegram_receiver"
	"zonebot/core"
	"zonebot/core/access"
	"zonebot/core/commands"
	"zonebot/internal/conf"
	"zonebot/internal/httpapi"
	"zonebot/internal/users"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	store, err := users.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open whitelist store: %v", err)
	}
	defer store.Close()
	logger.Info("whitelist store ready", "path", cfg.DBPath)

	var cf *cloudflare.Client
	if cfg.Cloudflare.Token != "" {
		cf = cloudflare.New(cfg.Cloudflare.Token, cfg.Cloudflare.AccountID)
	} else {
		cf = cloudflare.NewWithGlobalKey(cfg.Cloudflare.Email, cfg.Cloudflare.GlobalAPIKey, cfg.Cloudflare.AccountID)
	}

	registry := commands.NewRegistry()
	help := &commands.Help{}
	for _, cmd := range []commands.Command{
		&commands.Whoami{},
		&commands.MyID{},
		help,
		&commands.Status{CF: cf},
		&commands.Register{CF: cf},
		&commands.List{CF: cf},
		&commands.Add{CF: cf},
		&commands.Update{CF: cf},
		&commands.Delete{CF: cf},
	} {
		if err := registry.Register(cmd); err != nil {
			log.Fatalf("Failed to register command: %v", err)
		}
	}
	if err := registry.RegisterAlias("start", help); err != nil {
		log.Fatalf("Failed to register command: %v", err)
	}

	allowedChat := access.NormalizeChatID(cfg.Telegram.AllowedChatID)
	guard := access.New(cfg.Telegram.AllowedChatID, store)
	notifier := telegram_notifier.New(cfg.Telegram.BotToken, allowedChat)
	dispatcher := core.NewDispatcher(guard, registry, notifier, logger)

	// Each message is handled as its own task; handlers may interleave at
	// their remote calls.
	receiver := telegram_receiver.New(cfg.Telegram.BotToken, func(msg core.InboundMessage) {
		go dispatcher.Handle(msg)
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := receiver.Start(ctx); err != nil {
			logger.Error("receiver stopped", "error", err)
			stop()
		}
	}()

	server := httpapi.New(store, notifier, allowedChat, cfg.HTTP.NotifySecret, cfg.HTTP.AdminToken, logger)
	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := server.Run(cfg.HTTP.Port); err != nil {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
}
