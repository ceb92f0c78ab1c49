package main

import (
	"context"
	"errors"
	"log"
	"net/url"
	"time"

	"superfaktura-callback/internal/core/cache"
	"superfaktura-callback/internal/core/config"
	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/core/proxy"
	"superfaktura-callback/internal/core/server"
	callbackadapter "superfaktura-callback/internal/features/callback/adapters"
	callbackdomain "superfaktura-callback/internal/features/callback/domain"
	callbackhandler "superfaktura-callback/internal/features/callback/handler"
	callbackservice "superfaktura-callback/internal/features/callback/service"
	orderadapter "superfaktura-callback/internal/features/orders/adapters"
	orderdomain "superfaktura-callback/internal/features/orders/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title SuperFaktura Callback API
// @version 1.0
// @description Receives payment callbacks from SuperFaktura and advances the linked WooCommerce orders.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Configuration store
	store, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Invalid Redis configuration", zap.Error(err))
	}
	defer store.Close()
	if err := store.Ping(startupCtx); err != nil {
		l.Fatal("Redis Health Check Failed", zap.Error(err))
	}

	options := callbackadapter.NewOptionStore(store, callbackdomain.Settings{
		Enabled: cfg.Callback.Enabled,
		Transition: callbackdomain.Transition{
			From: orderdomain.OrderStatus(cfg.Callback.StatusFrom),
			To:   orderdomain.OrderStatus(cfg.Callback.StatusTo),
		},
	})

	if _, err := callbackservice.NewSecretService(options).Ensure(startupCtx); err != nil {
		l.Fatal("Failed to initialize callback secret", zap.Error(err))
	}

	// Order repository
	wcAdapter := orderadapter.NewWooCommerceAdapter(cfg.WooCommerce, proxy.Settings(cfg.Proxy))
	if err := wcAdapter.HealthCheck(startupCtx); err != nil {
		l.Fatal("WooCommerce Health Check Failed", zap.Error(err))
	}
	l.Info("WooCommerce connection verified")

	catalog, err := orderadapter.NewStatusCatalog(cfg.Callback.StatusCatalog, wcAdapter)
	if err != nil {
		l.Fatal("Invalid status catalog", zap.Error(err))
	}
	settings, err := options.Settings(startupCtx)
	if err != nil {
		l.Fatal("Failed to read callback settings", zap.Error(err))
	}
	if err := callbackservice.CheckStatuses(startupCtx, catalog, settings.Transition); err != nil {
		l.Warn("Callback transition statuses not verified",
			zap.String("status_from", string(settings.Transition.From)),
			zap.String("status_to", string(settings.Transition.To)),
			zap.Error(err),
		)
	}
	if !settings.Transition.IsConfigured() {
		l.Warn("Callback transition has a blank status; orders will not be changed")
	}

	// Callback service & handler
	callbackService := callbackservice.NewCallbackService(options, options, wcAdapter)
	callbackHdl := callbackhandler.NewCallbackHandler(callbackService)

	srv := server.New(cfg)

	// Register Routes
	callbackPath := "/" + cfg.Callback.Namespace + "/callback"
	srv.App.Get(callbackPath, callbackHdl.HandleCallback)
	srv.App.Get("/healthz", func(c *fiber.Ctx) error {
		if err := store.Ping(c.UserContext()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "configuration store unavailable")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	l.Info("Callback route registered",
		zap.String("path", callbackPath),
		zap.String("url", callbackURL(cfg.Callback.PublicURL, callbackPath)),
		zap.Bool("enabled", settings.Enabled),
		zap.String("status_from", string(settings.Transition.From)),
		zap.String("status_to", string(settings.Transition.To)),
	)

	if err := srv.Run(); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}

// callbackURL is the URL to configure at the invoicing provider, without
// the invoice_id and secret_key query parameters.
func callbackURL(base, path string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return path
	}
	return u.JoinPath(path).String()
}
