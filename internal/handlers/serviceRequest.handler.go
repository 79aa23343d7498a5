package handlers

import (
	"applianceassist/internal/app"
	serviceRequestController "applianceassist/internal/controllers/serviceRequest"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
	"applianceassist/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type ServiceRequestHandler struct {
	Handler
	controller serviceRequestController.ServiceRequestController
}

func NewServiceRequestHandler(app app.App, router fiber.Router) *ServiceRequestHandler {
	log := logger.New("handlers").File("serviceRequest_handler")
	return &ServiceRequestHandler{
		controller: *app.ServiceRequestController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ServiceRequestHandler) Register() {
	serviceRequests := h.router.Group("/service-requests")
	serviceRequests.Post("/", h.submit)
}

func (h *ServiceRequestHandler) submit(c *fiber.Ctx) error {
	log := h.log.Function("submit")

	var form ServiceRequestForm
	if err := c.BodyParser(&form); err != nil {
		log.Warn("failed to parse service request", "error", err)
		return failure(c, fiber.StatusBadRequest, msgInvalidRequest)
	}

	serviceRequest, violations, err := h.controller.Submit(c.Context(), form.Raw())
	if len(violations) > 0 {
		return validationFailed(c, validation.MsgInvalidForm, violations)
	}
	if err != nil {
		log.Er("failed to submit service request", err)
		return failure(c, fiber.StatusInternalServerError, "Could not create service request.")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":        true,
		"message":        "Service request submitted successfully!",
		"orderId":        serviceRequest.ID,
		"serviceRequest": serviceRequest,
	})
}
