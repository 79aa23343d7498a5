package serviceAreaController

import (
	"strconv"

	"applianceassist/internal/logger"
	"applianceassist/internal/metrics"
	. "applianceassist/internal/models"
	"applianceassist/internal/services"
	"applianceassist/internal/validation"
)

type ServiceAreaController struct {
	serviceAreaService *services.ServiceAreaService
	metrics            *metrics.Metrics
	log                logger.Logger
}

func New(
	serviceAreaService *services.ServiceAreaService,
	metrics *metrics.Metrics,
) *ServiceAreaController {
	return &ServiceAreaController{
		serviceAreaService: serviceAreaService,
		metrics:            metrics,
		log:                logger.New("ServiceAreaController"),
	}
}

func (c *ServiceAreaController) Check(raw map[string]string) (ServiceAreaResult, validation.Violations) {
	location, violations := validation.ValidateServiceArea(raw)
	if len(violations) > 0 {
		return ServiceAreaResult{}, violations
	}

	result := c.serviceAreaService.Check(location)
	c.metrics.ServiceAreaLookupsTotal.WithLabelValues(strconv.FormatBool(result.Available)).Inc()
	c.log.Function("Check").Debug("service area checked", "location", location, "available", result.Available)

	return result, nil
}
