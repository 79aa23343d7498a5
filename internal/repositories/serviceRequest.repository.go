package repositories

import (
	"context"
	"errors"
	"time"

	"applianceassist/internal/database"
	"applianceassist/internal/logger"
	. "applianceassist/internal/models"
	"applianceassist/internal/services"

	"gorm.io/gorm"
)

const (
	SERVICE_REQUEST_CACHE_EXPIRY = 24 * time.Hour // 24 hours
)

var (
	ErrServiceRequestNotFound = errors.New("service request not found")
	ErrInvalidStatus          = errors.New("invalid service request status")
)

type ServiceRequestRepository interface {
	Create(ctx context.Context, input ServiceRequestInput) (*ServiceRequest, error)
	List(ctx context.Context) ([]*ServiceRequest, error)
	GetByID(ctx context.Context, id string) (*ServiceRequest, error)
	Update(ctx context.Context, id string, update ServiceRequestUpdate) (*ServiceRequest, error)
	Count(ctx context.Context) (int64, error)
}

type serviceRequestRepository struct {
	db  database.DB
	tx  *services.TransactionService
	now func() time.Time
	log logger.Logger
}

type Option func(*serviceRequestRepository)

// WithClock replaces the wall clock used for createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(r *serviceRequestRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewServiceRequest(db database.DB, opts ...Option) ServiceRequestRepository {
	r := &serviceRequestRepository{
		db:  db,
		tx:  services.NewTransactionService(db),
		now: time.Now,
		log: logger.New("serviceRequestRepository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *serviceRequestRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *serviceRequestRepository) Create(
	ctx context.Context,
	input ServiceRequestInput,
) (*ServiceRequest, error) {
	log := r.log.Function("Create")

	now := r.now().UTC()
	serviceRequest := &ServiceRequest{
		BaseUUIDModel: BaseUUIDModel{
			CreatedAt: now,
			UpdatedAt: now,
		},
		ApplianceType:    input.ApplianceType,
		IssueDescription: input.IssueDescription,
		ContactName:      input.ContactName,
		ContactEmail:     input.ContactEmail,
		ContactPhone:     input.ContactPhone,
		Address:          input.Address,
		Status:           StatusPending,
		Notes:            "",
	}

	if err := r.getDB(ctx).Create(serviceRequest).Error; err != nil {
		return nil, log.Err("failed to create service request", err, "applianceType", input.ApplianceType)
	}

	r.addServiceRequestToCache(ctx, serviceRequest)

	log.Info("service request created", "id", serviceRequest.ID, "applianceType", serviceRequest.ApplianceType)
	return serviceRequest, nil
}

// List reads every order from SQL, newest first. The cache is never consulted.
func (r *serviceRequestRepository) List(ctx context.Context) ([]*ServiceRequest, error) {
	log := r.log.Function("List")

	var serviceRequests []*ServiceRequest
	if err := r.getDB(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&serviceRequests).Error; err != nil {
		return nil, log.Err("failed to list service requests", err)
	}

	return serviceRequests, nil
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id string) (*ServiceRequest, error) {
	var serviceRequest ServiceRequest
	if found := r.getCacheByID(ctx, id, &serviceRequest); found {
		return &serviceRequest, nil
	}

	if err := r.getDBByID(ctx, id, &serviceRequest); err != nil {
		return nil, err
	}

	r.addServiceRequestToCache(ctx, &serviceRequest)
	return &serviceRequest, nil
}

// Update merges the non-nil fields of update into the stored order inside one
// transaction. updatedAt always moves forward, even if the clock does not.
func (r *serviceRequestRepository) Update(
	ctx context.Context,
	id string,
	update ServiceRequestUpdate,
) (*ServiceRequest, error) {
	log := r.log.Function("Update")

	if update.Status != nil && !update.Status.Valid() {
		return nil, log.Err("rejected update", ErrInvalidStatus, "id", id, "status", *update.Status)
	}

	var serviceRequest ServiceRequest
	err := r.tx.Execute(ctx, func(ctx context.Context) error {
		if err := r.getDBByID(ctx, id, &serviceRequest); err != nil {
			return err
		}

		updatedAt := r.now().UTC()
		if !updatedAt.After(serviceRequest.UpdatedAt) {
			updatedAt = serviceRequest.UpdatedAt.Add(time.Nanosecond)
		}

		changes := map[string]any{"updated_at": updatedAt}
		if update.Status != nil {
			changes["status"] = *update.Status
			serviceRequest.Status = *update.Status
		}
		if update.Notes != nil {
			changes["notes"] = *update.Notes
			serviceRequest.Notes = *update.Notes
		}
		serviceRequest.UpdatedAt = updatedAt

		if err := r.getDB(ctx).
			Model(&ServiceRequest{}).
			Where("id = ?", id).
			Updates(changes).Error; err != nil {
			return log.Err("failed to update service request", err, "id", id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	r.addServiceRequestToCache(ctx, &serviceRequest)
	return &serviceRequest, nil
}

func (r *serviceRequestRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&ServiceRequest{}).Count(&count).Error; err != nil {
		return 0, r.log.Function("Count").Err("failed to count service requests", err)
	}
	return count, nil
}

// getCacheByID never fails the caller: errors are logged and treated as a miss.
func (r *serviceRequestRepository) getCacheByID(
	ctx context.Context,
	id string,
	serviceRequest *ServiceRequest,
) bool {
	found, err := database.NewCacheBuilder(r.db.Cache.Orders, id).
		WithHashPattern(database.ServiceRequestCacheKey).
		WithContext(ctx).
		Get(serviceRequest)
	if err != nil {
		r.log.Function("getCacheByID").
			Warn("failed to get service request from cache", "id", id, "error", err)
		return false
	}
	return found
}

func (r *serviceRequestRepository) addServiceRequestToCache(
	ctx context.Context,
	serviceRequest *ServiceRequest,
) {
	if err := database.NewCacheBuilder(r.db.Cache.Orders, serviceRequest.ID).
		WithHashPattern(database.ServiceRequestCacheKey).
		WithStruct(serviceRequest).
		WithTTL(SERVICE_REQUEST_CACHE_EXPIRY).
		WithContext(ctx).
		Set(); err != nil {
		r.log.Function("addServiceRequestToCache").
			Warn("failed to add service request to cache", "id", serviceRequest.ID, "error", err)
	}
}

func (r *serviceRequestRepository) getDBByID(
	ctx context.Context,
	id string,
	serviceRequest *ServiceRequest,
) error {
	log := r.log.Function("getDBByID")

	if err := r.getDB(ctx).First(serviceRequest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Debug("service request not found", "id", id)
			return ErrServiceRequestNotFound
		}
		return log.Err("failed to get service request by id", err, "id", id)
	}

	return nil
}
