package services

import (
	"context"

	"applianceassist/internal/database"
	"applianceassist/internal/events"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
)

// CacheInvalidationService drops the cached copy of an order after it changes
// and tells live admin clients about it.
type CacheInvalidationService struct {
	eventBus *events.EventBus
	cache    database.CacheClient
	log      logger.Logger
}

func NewCacheInvalidationService(
	eventBus *events.EventBus,
	cache database.CacheClient,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		eventBus: eventBus,
		cache:    cache,
		log:      logger.New("CacheInvalidationService"),
	}
}

func (s *CacheInvalidationService) OrderCreated(ctx context.Context, order *ServiceRequest) {
	s.publish(events.TypeOrderCreated, order)
}

func (s *CacheInvalidationService) OrderUpdated(ctx context.Context, order *ServiceRequest) {
	log := s.log.Function("OrderUpdated")

	cache := database.NewCacheBuilder(s.cache, order.ID).
		WithContext(ctx).
		WithHashPattern(database.ServiceRequestCacheKey)
	if err := cache.Delete(); err != nil {
		log.Warn("failed to invalidate order cache", "key", cache.Key(), "error", err)
	}

	s.publish(events.TypeOrderUpdated, order)
}

func (s *CacheInvalidationService) publish(eventType string, order *ServiceRequest) {
	if s.eventBus == nil || order == nil {
		return
	}

	event := events.NewEvent(events.ChannelOrders, eventType, map[string]any{
		"id":     order.ID,
		"status": string(order.Status),
	})
	if err := s.eventBus.Publish(events.ChannelOrders, event); err != nil {
		s.log.Function("publish").Warn("failed to publish order event", "type", eventType, "error", err)
	}
}
