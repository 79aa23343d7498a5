package adminController

import (
	"context"
	"errors"
	"strings"

	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"
	"applianceassist/internal/repositories"
	"applianceassist/internal/services"

	. "applianceassist/internal/models"
)

const StatusFilterAll = "all"

var (
	ErrDeleteNotImplemented = errors.New("delete is not implemented")
	ErrEmptyUpdate          = errors.New("no fields to update")
)

type AdminController struct {
	serviceRequestRepo       repositories.ServiceRequestRepository
	cacheInvalidationService *services.CacheInvalidationService
	metrics                  *metrics.Metrics
	log                      logger.Logger
}

func New(
	serviceRequestRepo repositories.ServiceRequestRepository,
	cacheInvalidationService *services.CacheInvalidationService,
	metrics *metrics.Metrics,
) *AdminController {
	return &AdminController{
		serviceRequestRepo:       serviceRequestRepo,
		cacheInvalidationService: cacheInvalidationService,
		metrics:                  metrics,
		log:                      logger.New("AdminController"),
	}
}

type OrderList struct {
	Orders   []*ServiceRequest `json:"orders"`
	Total    int               `json:"total"`
	Filtered int               `json:"filtered"`
}

// ListOrders loads every order and applies the status filter and search term.
func (c *AdminController) ListOrders(ctx context.Context, status, term string) (OrderList, error) {
	orders, err := c.serviceRequestRepo.List(ctx)
	if err != nil {
		return OrderList{}, c.log.Function("ListOrders").Err("failed to list orders", err)
	}

	filtered := FilterOrders(orders, status, term)
	return OrderList{
		Orders:   filtered,
		Total:    len(orders),
		Filtered: len(filtered),
	}, nil
}

func (c *AdminController) GetOrder(ctx context.Context, id string) (*ServiceRequest, error) {
	order, err := c.serviceRequestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, c.log.Function("GetOrder").Err("failed to get order", err, "id", id)
	}
	return order, nil
}

func (c *AdminController) UpdateStatus(ctx context.Context, id, status string) (*ServiceRequest, error) {
	next := Status(status)
	return c.update(ctx, id, ServiceRequestUpdate{Status: &next})
}

func (c *AdminController) UpdateNotes(ctx context.Context, id, notes string) (*ServiceRequest, error) {
	return c.update(ctx, id, ServiceRequestUpdate{Notes: &notes})
}

func (c *AdminController) Update(
	ctx context.Context,
	id string,
	request UpdateServiceRequestRequest,
) (*ServiceRequest, error) {
	var update ServiceRequestUpdate
	if request.Status != nil {
		status := Status(*request.Status)
		update.Status = &status
	}
	update.Notes = request.Notes

	return c.update(ctx, id, update)
}

// DeleteOrder is a placeholder. It never touches the store.
func (c *AdminController) DeleteOrder(ctx context.Context, id string) error {
	c.log.Function("DeleteOrder").Info("delete requested but not implemented", "id", id)
	return ErrDeleteNotImplemented
}

func (c *AdminController) update(
	ctx context.Context,
	id string,
	update ServiceRequestUpdate,
) (*ServiceRequest, error) {
	log := c.log.Function("update")

	if update.Empty() {
		return nil, ErrEmptyUpdate
	}

	order, err := c.serviceRequestRepo.Update(ctx, id, update)
	if err != nil {
		return nil, log.Err("failed to update order", err, "id", id)
	}

	if update.Status != nil {
		c.metrics.ServiceRequestUpdatesTotal.WithLabelValues("status").Inc()
	}
	if update.Notes != nil {
		c.metrics.ServiceRequestUpdatesTotal.WithLabelValues("notes").Inc()
	}
	c.cacheInvalidationService.OrderUpdated(ctx, order)

	return order, nil
}

// FilterOrders keeps orders matching status (empty or "all" keeps every
// status) whose contact name, appliance type, id or issue description
// contains term, ignoring case. The input slice is not modified.
func FilterOrders(orders []*ServiceRequest, status, term string) []*ServiceRequest {
	status = strings.TrimSpace(status)
	term = strings.ToLower(strings.TrimSpace(term))

	filtered := make([]*ServiceRequest, 0, len(orders))
	for _, order := range orders {
		if status != "" && status != StatusFilterAll && string(order.Status) != status {
			continue
		}
		if term != "" && !matchesTerm(order, term) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

func matchesTerm(order *ServiceRequest, term string) bool {
	for _, field := range []string{
		order.ContactName,
		string(order.ApplianceType),
		order.ID,
		order.IssueDescription,
	} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
