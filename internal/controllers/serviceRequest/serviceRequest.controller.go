package serviceRequestController

import (
	"context"

	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"
	. "applianceassist/internal/models"
	"applianceassist/internal/repositories"
	"applianceassist/internal/services"
	"applianceassist/internal/validation"
)

type ServiceRequestController struct {
	serviceRequestRepo       repositories.ServiceRequestRepository
	cacheInvalidationService *services.CacheInvalidationService
	metrics                  *metrics.Metrics
	log                      logger.Logger
}

func New(
	serviceRequestRepo repositories.ServiceRequestRepository,
	cacheInvalidationService *services.CacheInvalidationService,
	metrics *metrics.Metrics,
) *ServiceRequestController {
	return &ServiceRequestController{
		serviceRequestRepo:       serviceRequestRepo,
		cacheInvalidationService: cacheInvalidationService,
		metrics:                  metrics,
		log:                      logger.New("ServiceRequestController"),
	}
}

// Submit validates a raw form and stores it as a pending order. Violations
// are returned instead of an error when the form is rejected; nothing is
// written in that case.
func (c *ServiceRequestController) Submit(
	ctx context.Context,
	raw map[string]string,
) (*ServiceRequest, validation.Violations, error) {
	log := c.log.Function("Submit")

	input, violations := validation.ValidateServiceRequest(raw)
	if len(violations) > 0 {
		log.Debug("service request rejected", "fields", violations.Fields())
		return nil, violations, nil
	}

	serviceRequest, err := c.serviceRequestRepo.Create(ctx, input)
	if err != nil {
		return nil, nil, log.Err("failed to submit service request", err)
	}

	c.metrics.ServiceRequestsCreatedTotal.Inc()
	c.cacheInvalidationService.OrderCreated(ctx, serviceRequest)

	return serviceRequest, nil, nil
}
