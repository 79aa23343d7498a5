package handlers

import (
	"applianceassist/internal/app"
	diagnosisController "applianceassist/internal/controllers/diagnosis"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
	"applianceassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type DiagnosisHandler struct {
	Handler
	controller diagnosisController.DiagnosisController
}

func NewDiagnosisHandler(app app.App, router fiber.Router) *DiagnosisHandler {
	log := logger.New("handlers").File("diagnosis_handler")
	return &DiagnosisHandler{
		controller: *app.DiagnosisController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *DiagnosisHandler) Register() {
	h.router.Post("/diagnosis", h.diagnose)
}

func (h *DiagnosisHandler) diagnose(c *fiber.Ctx) error {
	log := h.log.Function("diagnose")

	var form DiagnosisForm
	if err := c.BodyParser(&form); err != nil {
		log.Warn("failed to parse diagnosis request", "error", err)
		return failure(c, fiber.StatusBadRequest, msgInvalidRequest)
	}

	diagnosis, violations, err := h.controller.Diagnose(c.Context(), form.Raw())
	if len(violations) > 0 {
		return validationFailed(c, validation.MsgInvalidForm, violations)
	}
	if err != nil {
		log.Er("diagnosis failed", err)
		return failure(c, fiber.StatusBadGateway, "Failed to get diagnosis. Please try again.")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Diagnosis complete.",
		"diagnosis": diagnosis,
	})
}
