package services

import (
	"fmt"
	"strings"

	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
)

type ServiceAreaService struct {
	areas []string
	log   logger.Logger
}

// NewServiceAreaService takes lower-cased area names or ZIP codes.
func NewServiceAreaService(areas []string) *ServiceAreaService {
	return &ServiceAreaService{
		areas: areas,
		log:   logger.New("services").File("serviceArea.service"),
	}
}

// Check reports whether location is served. A location matches when it
// contains a configured area or is contained by one, ignoring case.
func (s *ServiceAreaService) Check(location string) ServiceAreaResult {
	query := strings.ToLower(strings.TrimSpace(location))

	for _, area := range s.areas {
		if query == "" || area == "" {
			continue
		}
		if strings.Contains(query, area) || strings.Contains(area, query) {
			s.log.Function("Check").Debug("location served", "location", location, "area", area)
			return ServiceAreaResult{
				Available: true,
				Message:   fmt.Sprintf("Great news! We provide service in %s.", location),
			}
		}
	}

	return ServiceAreaResult{
		Available: false,
		Message: fmt.Sprintf(
			"Sorry, we currently do not service %s. Please check back later as we expand!",
			location,
		),
	}
}
