package handlers

import (
	"time"

	"applianceassist/config"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, config config.Config) {
	started := time.Now()

	router.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"version":     config.GeneralVersion,
			"environment": config.Environment,
			"uptime":      time.Since(started).Round(time.Second).String(),
		})
	})
}
