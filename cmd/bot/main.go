package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/zamontech/yaqinbot/internal/config"
	"github.com/zamontech/yaqinbot/internal/conversation"
	"github.com/zamontech/yaqinbot/internal/database"
	"github.com/zamontech/yaqinbot/internal/handler"
	"github.com/zamontech/yaqinbot/internal/locale"
	middlewarepkg "github.com/zamontech/yaqinbot/internal/middleware"
	"github.com/zamontech/yaqinbot/internal/places"
	"github.com/zamontech/yaqinbot/internal/repository"
	"github.com/zamontech/yaqinbot/internal/router"
	"github.com/zamontech/yaqinbot/internal/service"
	"github.com/zamontech/yaqinbot/internal/telegram"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	cancel()
	defer pool.Close()

	locales, err := locale.Load()
	if err != nil {
		log.Fatalf("failed to load locales: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	placesClient := places.NewClient(httpClient, cfg.GoogleAPIKey)
	profilesRepo := repository.NewPGXProfilesRepository(pool)

	machine := conversation.NewMachine(conversation.Deps{
		Sessions:  conversation.NewSessionStore(),
		Profiles:  profilesRepo,
		Locales:   locales,
		Collector: service.NewProfileCollector(profilesRepo, cfg.PhoneRegion),
		Resolver:  service.NewLocationResolver(placesClient),
		Search:    service.NewCategorySearch(placesClient, cfg.RadiusMeters, cfg.MaxResults),
		Renderer:  conversation.NewCardRenderer(locales, placesClient),
		Reverse:   placesClient,
	})

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("failed to connect to telegram: %v", err)
	}
	log.Printf("event=bot_authorized username=%s", api.Self.UserName)

	bot := telegram.NewBot(api, machine, telegram.NewLimiter(cfg.RateLimitSend))

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	handlers := router.Handlers{}
	if cfg.WebhookURL != "" {
		handlers.Webhook = handler.NewWebhookHandler(bot, cfg.WebhookSecret)
	}
	router.Register(e, cfg, handlers)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.WebhookURL != "" {
		if err := registerWebhook(api, cfg); err != nil {
			log.Fatalf("failed to register webhook: %v", err)
		}
		log.Printf("event=webhook_mode url=%s", cfg.WebhookURL)
	} else {
		poller := telegram.NewPoller(api, bot)
		go func() {
			if err := poller.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("event=polling_stopped error=%q", err)
				stop()
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case <-runCtx.Done():
		log.Printf("received shutdown signal, shutting down")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

func registerWebhook(api *tgbotapi.BotAPI, cfg *config.Config) error {
	params := tgbotapi.Params{
		"url":                  strings.TrimRight(cfg.WebhookURL, "/") + "/webhook",
		"drop_pending_updates": "true",
	}
	if cfg.WebhookSecret != "" {
		params["secret_token"] = cfg.WebhookSecret
	}

	resp, err := api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	if !resp.Ok {
		return fmt.Errorf("set webhook rejected: %s", resp.Description)
	}
	return nil
}
