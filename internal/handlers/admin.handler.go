package handlers

import (
	"errors"

	"applianceassist/internal/app"
	adminController "applianceassist/internal/controllers/admin"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
	"applianceassist/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Handler
	controller *adminController.AdminController
}

func NewAdminHandler(app app.App, router fiber.Router) *AdminHandler {
	log := logger.New("handlers").File("admin_handler")
	return &AdminHandler{
		controller: app.AdminController,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AdminHandler) Register() {
	h.router.Get("/", h.index)

	orders := h.router.Group("/orders")
	orders.Get("/", h.listOrders)
	orders.Get("/:id", h.getOrder)
	orders.Patch("/:id", h.updateOrder)
	orders.Patch("/:id/status", h.updateStatus)
	orders.Patch("/:id/notes", h.updateNotes)
	orders.Delete("/:id", h.deleteOrder)
}

func (h *AdminHandler) index(c *fiber.Ctx) error {
	return c.Redirect("/admin/orders", fiber.StatusFound)
}

func (h *AdminHandler) listOrders(c *fiber.Ctx) error {
	list, err := h.controller.ListOrders(c.Context(), c.Query("status"), c.Query("q"))
	if err != nil {
		h.log.Function("listOrders").Er("failed to list orders", err)
		return failure(c, fiber.StatusInternalServerError, "Could not load service requests.")
	}

	return c.JSON(list)
}

func (h *AdminHandler) getOrder(c *fiber.Ctx) error {
	order, err := h.controller.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return h.orderError(c, "getOrder", err, "Could not load service request.")
	}

	return c.JSON(fiber.Map{"success": true, "order": order})
}

func (h *AdminHandler) updateOrder(c *fiber.Ctx) error {
	var request UpdateServiceRequestRequest
	if err := c.BodyParser(&request); err != nil {
		return failure(c, fiber.StatusBadRequest, msgInvalidRequest)
	}

	order, err := h.controller.Update(c.Context(), c.Params("id"), request)
	return h.updated(c, "updateOrder", order, err)
}

func (h *AdminHandler) updateStatus(c *fiber.Ctx) error {
	var request UpdateServiceRequestRequest
	if err := c.BodyParser(&request); err != nil || request.Status == nil {
		return failure(c, fiber.StatusBadRequest, "Status is required.")
	}

	order, err := h.controller.UpdateStatus(c.Context(), c.Params("id"), *request.Status)
	return h.updated(c, "updateStatus", order, err)
}

// updateNotes runs the request through a notes edit session so the store
// only sees the confirmed draft.
func (h *AdminHandler) updateNotes(c *fiber.Ctx) error {
	var request UpdateServiceRequestRequest
	if err := c.BodyParser(&request); err != nil || request.Notes == nil {
		return failure(c, fiber.StatusBadRequest, "Notes are required.")
	}

	current, err := h.controller.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return h.orderError(c, "updateNotes", err, "Could not update service request.")
	}

	session := h.controller.BeginNotesEdit(current)
	session.SetDraft(*request.Notes)
	order, err := session.Confirm(c.Context())
	return h.updated(c, "updateNotes", order, err)
}

func (h *AdminHandler) deleteOrder(c *fiber.Ctx) error {
	err := h.controller.DeleteOrder(c.Context(), c.Params("id"))
	return h.orderError(c, "deleteOrder", err, "Could not delete service request.")
}

func (h *AdminHandler) updated(c *fiber.Ctx, function string, order *ServiceRequest, err error) error {
	if err != nil {
		return h.orderError(c, function, err, "Could not update service request.")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Service request updated.",
		"order":   order,
	})
}

func (h *AdminHandler) orderError(c *fiber.Ctx, function string, err error, message string) error {
	switch {
	case errors.Is(err, repositories.ErrServiceRequestNotFound):
		return failure(c, fiber.StatusNotFound, "Service request not found.")
	case errors.Is(err, repositories.ErrInvalidStatus):
		return failure(c, fiber.StatusBadRequest, "Invalid status.")
	case errors.Is(err, adminController.ErrEmptyUpdate):
		return failure(c, fiber.StatusBadRequest, "Nothing to update.")
	case errors.Is(err, adminController.ErrDeleteNotImplemented):
		return failure(c, fiber.StatusNotImplemented, "Delete is not implemented.")
	default:
		h.log.Function(function).Er("order operation failed", err)
		return failure(c, fiber.StatusInternalServerError, message)
	}
}
