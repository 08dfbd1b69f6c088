// Package heartbeat serves the host health checks. It runs beside the bot and
// exposes no bot state.
package heartbeat

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Server struct {
	app  *fiber.App
	port int
}

func NewServer(port int) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "online", "bot": "chatterous"})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "uptime": "running"})
	})

	return &Server{app: app, port: port}
}

// Listen blocks serving health checks until Shutdown is called.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("Heartbeat server listening",
		slog.String("type", "sys"),
		slog.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}
