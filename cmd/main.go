package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whodidit/backend/internal/api/handler"
	"whodidit/backend/internal/claim"
	"whodidit/backend/internal/config"
	"whodidit/backend/internal/contact"
	"whodidit/backend/internal/identity"
	"whodidit/backend/internal/localization"
	"whodidit/backend/internal/logger"
	"whodidit/backend/internal/metrics"
	"whodidit/backend/internal/moderation"
	"whodidit/backend/internal/payment"
	"whodidit/backend/internal/provider"
	"whodidit/backend/internal/review"
	"whodidit/backend/internal/storage"
	"whodidit/backend/internal/telegram"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel).With("main")
	log.Info("Starting WhoDidIt Backend...")
	if envErr != nil {
		log.Warnf("Warning: Error loading .env file: %v", envErr)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err, "Refusing to start with unsafe configuration")
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. База даних і кеш
	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatal(err, "Failed to connect database")
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatal(err, "Failed to run migrations")
	}
	rdb := storage.NewRedisClient(context.Background(), cfg, log)
	s := storage.NewStorageService(db, rdb, log)
	log.Infof("Database (%s) ready, profile cache enabled: %t", cfg.DBDriver, rdb != nil)

	// 2. Сервіси ядра
	loc, err := localization.NewLocalizer(cfg.LocalesDir, cfg.DefaultLang)
	if err != nil {
		log.Fatal(err, "Failed to load translations")
	}
	m := metrics.New()

	notifier, err := telegram.NewBotNotifier(cfg.TelegramBotToken, cfg.TelegramModeratorChat, loc, cfg.DefaultLang, log)
	if err != nil {
		log.Error(err, "Telegram notifier disabled")
		notifier = nil
	}

	resolver := identity.NewResolver(s, rdb, cfg.ProfileCacheTTL, log)
	registry := provider.NewRegistry(s, m, log)
	claims := claim.NewService(s, registry, resolver, notifier, m, log)
	queue := contact.NewQueue(s, resolver, notifier, cfg.ContactQueueOrder, m, log)

	h := &handler.Handler{
		Tokens:     identity.NewTokens(cfg.JWTSecret, cfg.JWTTTL),
		Reviews:    review.NewLedger(s, registry, m, log),
		Providers:  registry,
		Claims:     claims,
		Contact:    queue,
		Moderation: moderation.NewFacade(resolver, claims, queue),
		Checkout:   payment.NewCheckout(nil, log),
		Localizer:  loc,
		Metrics:    m,
		Log:        log.With("http"),
	}

	// 3. HTTP-сервер
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        h.Router(),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Infof("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "HTTP server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err, "Graceful shutdown failed")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info("Server stopped")
}
