package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kerhoff/giftmate/internal/api"
	"github.com/Kerhoff/giftmate/internal/config"
	"github.com/Kerhoff/giftmate/internal/handlers"
	"github.com/Kerhoff/giftmate/internal/live"
	"github.com/Kerhoff/giftmate/internal/metrics"
	"github.com/Kerhoff/giftmate/internal/repository/sqlstore"
	"github.com/Kerhoff/giftmate/internal/service"
	"github.com/Kerhoff/giftmate/internal/suggest"
	"github.com/Kerhoff/giftmate/internal/telegram"
	"github.com/Kerhoff/giftmate/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.New(cfg.LogLevel, cfg.LogFormat)
	l.Info("Starting GiftMate...")

	// Database
	db, err := config.NewDatabase(cfg.DatabaseURL, l)
	if err != nil {
		l.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		l.Fatalf("Failed to run migrations: %v", err)
	}

	m := metrics.New()

	// Gift suggestions are optional; without a key the endpoint reports 503.
	var suggester service.Suggester
	if cfg.GeminiAPIKey != "" {
		suggester = suggest.NewClient(suggest.Config{
			BaseURL: cfg.GeminiBaseURL,
			Model:   cfg.GeminiModel,
			APIKey:  cfg.GeminiAPIKey,
		}, l, suggest.WithObserver(m.Suggestion))
	} else {
		l.Warn("GEMINI_API_KEY is not set, gift suggestions are disabled")
	}

	// Service layer
	store := sqlstore.New(db.DB, sqlstore.DialectFor(db.Driver))
	svc := service.New(store, live.NewHub(l), suggester, l, service.WithMetrics(m))

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.SeedCategories {
		if err := svc.SeedBaseCategories(ctx); err != nil {
			l.Fatalf("Failed to seed categories: %v", err)
		}
	}

	// HTTP API
	apiServer := api.NewServer(svc, l)
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		l.Infof("HTTP server listening on :%s", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("HTTP server error: %v", err)
		}
	}()

	// Prometheus metrics
	metricsMux := http.NewServeMux()
	metricsMux.Handle("GET /metrics", m.Handler())
	metricsServer := &http.Server{
		Addr:              ":" + cfg.PrometheusPort,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		l.Infof("Metrics server listening on :%s", cfg.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("Metrics server error: %v", err)
		}
	}()

	// Telegram bot
	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID, l)
		if err != nil {
			l.Fatalf("Failed to create Telegram bot: %v", err)
		}

		bot.RegisterCommand("start", handlers.NewStartHandler(l))
		bot.RegisterCommand("help", handlers.NewHelpHandler(l))

		// Wishlist handlers
		bought := handlers.NewBoughtHandler(svc, l)
		bot.RegisterCommand("wishlist", handlers.NewWishlistHandler(svc, l))
		bot.RegisterCommand("wish", handlers.NewWishHandler(svc, l))
		bot.RegisterCommand("bought", bought)
		bot.RegisterCallback(handlers.BoughtCallback, bought)

		// Friend handlers
		bot.RegisterCommand("friends", handlers.NewFriendsHandler(svc, l))
		bot.RegisterCommand("ideas", handlers.NewIdeasHandler(svc, l))
		bot.RegisterCommand("birthdays", handlers.NewBirthdaysHandler(svc, l))
		bot.RegisterCommand("suggest", handlers.NewSuggestHandler(svc, l))

		go func() {
			if err := bot.Start(ctx); err != nil {
				l.Errorf("Bot error: %v", err)
			}
		}()
	} else {
		l.Info("TELEGRAM_TOKEN is not set, Telegram bot is disabled")
	}

	l.Info("GiftMate started successfully")

	<-ctx.Done()
	l.Info("Received shutdown signal...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	l.Info("Shutting down HTTP servers...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("HTTP server shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		l.Errorf("Metrics server shutdown error: %v", err)
	}

	l.Info("GiftMate stopped")
}
