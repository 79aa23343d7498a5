package handlers

import (
	"errors"

	"applianceassist/internal/app"
	authController "applianceassist/internal/controllers/auth"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
	"applianceassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const msgInvalidCredentials = "Invalid email or password. Please double-check your credentials and try again."

type AuthHandler struct {
	Handler
	controller authController.AuthController
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		controller: *app.AuthController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	h.router.Get("/login", h.loginPage)
	h.router.Post("/login", h.login)
	h.router.Post("/logout", h.logout)
}

// loginPage describes the form. Logged-in admins never get here; the
// session gate sends them to /admin.
func (h *AuthHandler) loginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message":        "Admin login",
		"fields":         []string{"email", "password"},
		"redirectedFrom": c.Query("redirectedFrom"),
	})
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Er("failed to parse login request", err)
		return failure(c, fiber.StatusBadRequest, validation.MsgInvalidLoginFormat)
	}

	_, violations, err := h.controller.Login(loginRequest.Raw())
	if len(violations) > 0 {
		return validationFailed(c, validation.MsgInvalidLoginFormat, violations)
	}
	if err != nil {
		if !errors.Is(err, authController.ErrInvalidCredentials) {
			log.Er("failed to check credentials", err)
		}
		return failure(c, fiber.StatusUnauthorized, msgInvalidCredentials)
	}

	h.middleware.SetSession(c)
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	h.middleware.ClearSession(c)
	return c.Redirect("/login", fiber.StatusSeeOther)
}
