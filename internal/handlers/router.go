package handlers

import (
	"applianceassist/internal/app"
	"applianceassist/internal/handlers/middleware"
	"applianceassist/internal/logger"
	"applianceassist/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const msgInvalidRequest = "Invalid request."

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(
		app.Middleware.RequestID,
		app.Middleware.RequestLogger,
		app.Middleware.Metrics,
		app.Middleware.SessionGate,
	)

	router.Get("/metrics", adaptor.HTTPHandler(
		promhttp.HandlerFor(app.Metrics.Registry, promhttp.HandlerOpts{}),
	))

	api := router.Group("/api")
	HealthHandler(api, app.Config)
	NewServiceRequestHandler(*app, api).Register()
	NewDiagnosisHandler(*app, api).Register()
	NewServiceAreaHandler(*app, api).Register()

	NewAuthHandler(*app, router).Register()

	admin := router.Group("/admin", app.Middleware.SessionGate)
	setupWebSocketRoute(admin, app)
	NewAdminHandler(*app, admin).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}

// validationFailed renders rejected form input the same way on every route.
func validationFailed(c *fiber.Ctx, message string, violations validation.Violations) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"success":    false,
		"message":    message,
		"violations": violations,
		"issues":     violations.Issues(),
	})
}

func failure(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}
