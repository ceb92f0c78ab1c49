package server

import (
	"errors"
	"fmt"

	"superfaktura-callback/internal/core/config"
	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/core/metrics"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	_ "superfaktura-callback/docs/swagger"
)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware,
// the metrics endpoint and the API docs.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "superfaktura-callback",
		ErrorHandler:          errorHandler,
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	// "path" instead of the default "url": the callback query carries the secret.
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
		Fields: []string{"ip", "latency", "status", "method", "path", "requestId", "error"},
	}))

	metrics.Register()
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	app.Get("/swagger/*", swagger.HandlerDefault)

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// errorHandler renders unhandled errors (unknown routes, panics surfaced as errors)
// in the same code/message shape the callback endpoint uses.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logger.Get().Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
	}

	errCode := "rest_error"
	if code == fiber.StatusNotFound {
		errCode = "rest_no_route"
	}

	return c.Status(code).JSON(fiber.Map{
		"code":    errCode,
		"message": message,
	})
}
