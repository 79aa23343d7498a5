package handlers

import (
	"applianceassist/internal/app"
	serviceAreaController "applianceassist/internal/controllers/serviceArea"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ServiceAreaHandler struct {
	Handler
	controller serviceAreaController.ServiceAreaController
}

func NewServiceAreaHandler(app app.App, router fiber.Router) *ServiceAreaHandler {
	log := logger.New("handlers").File("serviceArea_handler")
	return &ServiceAreaHandler{
		controller: *app.ServiceAreaController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ServiceAreaHandler) Register() {
	h.router.Post("/service-area", h.check)
}

func (h *ServiceAreaHandler) check(c *fiber.Ctx) error {
	var request ServiceAreaRequest
	if err := c.BodyParser(&request); err != nil {
		h.log.Function("check").Warn("failed to parse service area request", "error", err)
		return failure(c, fiber.StatusBadRequest, msgInvalidRequest)
	}

	result, violations := h.controller.Check(map[string]string{"location": request.Location})
	if len(violations) > 0 {
		return validationFailed(c, violations[0].Message, violations)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"available": result.Available,
		"message":   result.Message,
	})
}
