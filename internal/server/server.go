package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"launchpad/internal/config"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP front end of launchpad.
type Server struct {
	app    *fiber.App
	listen string
}

// New creates a Server serving handler with the settings in cfg.
func New(cfg *config.Config, handler *Handler) *Server {
	return &Server{
		app:    NewApp(handler, cfg.Server.CORSOrigins, cfg.BodyLimit()),
		listen: cfg.Server.Listen,
	}
}

// NewApp builds the fiber application with its middleware and routes.
func NewApp(handler *Handler, corsOrigins string, bodyLimit int) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "launchpad",
		BodyLimit:             bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(accessLog())
	app.Use(cors.New(cors.Config{AllowOrigins: corsOrigins}))

	app.Post("/build_and_run", handler.BuildAndRun)
	app.Get("/healthz", handler.Healthz)

	return app
}

// App exposes the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", s.listen)
		errCh <- s.app.Listen(s.listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down HTTP server")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}

// errorHandler renders framework errors (unknown routes, oversized bodies, panics)
// in the same shape as handler errors.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":  err.Error(),
		"status": code,
	})
}

func accessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		slog.Info("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).Round(time.Millisecond),
			"requestId", c.GetRespHeader(fiber.HeaderXRequestID),
			"remote", c.IP(),
		)
		return nil
	}
}
