// Package httpserver owns the fiber app serving the fulfillment webhook.
package httpserver

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"mutualfund-bot/config"
	"mutualfund-bot/internal/transport/webhook"
	customMW "mutualfund-bot/internal/transport/webhook/middleware"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
}

func New(cfg *config.Config, ctrl *webhook.Controller) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	})

	app.Use(recover.New(), customMW.Logger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	app.Post("/webhook", ctrl.Handle)

	return &Server{app: app, cfg: cfg}
}

func (s *Server) Start() {
	go func() {
		addr := fmt.Sprintf(":%d", s.cfg.HTTP.Port)
		if err := s.app.Listen(addr); err != nil {
			slog.Error("webhook server stopped", slog.String("err", err.Error()))
		}
	}()
	slog.Info("webhook server started", slog.Int("port", s.cfg.HTTP.Port))
}

func (s *Server) Stop() {
	slog.Info("start stopping webhook server")
	if err := s.app.ShutdownWithTimeout(s.cfg.HTTP.ShutdownTimeout); err != nil {
		slog.Error("error on server shutdown", slog.String("err", err.Error()))
	}
	slog.Info("webhook server stopped")
}
