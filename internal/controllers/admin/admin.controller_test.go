package adminController

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"applianceassist/internal/events"
	"applianceassist/internal/metrics"
	. "applianceassist/internal/models"
	"applianceassist/internal/repositories"
	"applianceassist/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	orders  map[string]*ServiceRequest
	updates []ServiceRequestUpdate
	listErr error
}

func newFakeRepo(orders ...*ServiceRequest) *fakeRepo {
	repo := &fakeRepo{orders: make(map[string]*ServiceRequest)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *fakeRepo) Create(ctx context.Context, input ServiceRequestInput) (*ServiceRequest, error) {
	return nil, errors.New("not used")
}

func (r *fakeRepo) List(ctx context.Context) ([]*ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	orders := make([]*ServiceRequest, 0, len(r.orders))
	for _, order := range r.orders {
		copied := *order
		orders = append(orders, &copied)
	}
	return orders, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrServiceRequestNotFound
	}
	copied := *order
	return &copied, nil
}

func (r *fakeRepo) Update(ctx context.Context, id string, update ServiceRequestUpdate) (*ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update)

	if update.Status != nil && !update.Status.Valid() {
		return nil, repositories.ErrInvalidStatus
	}
	order, ok := r.orders[id]
	if !ok {
		return nil, repositories.ErrServiceRequestNotFound
	}
	if update.Status != nil {
		order.Status = *update.Status
	}
	if update.Notes != nil {
		order.Notes = *update.Notes
	}
	order.UpdatedAt = order.UpdatedAt.Add(time.Second)
	copied := *order
	return &copied, nil
}

func (r *fakeRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.orders)), nil
}

func (r *fakeRepo) updateCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.updates)
}

func order(id, name string, appliance ApplianceType, status Status, issue string) *ServiceRequest {
	return &ServiceRequest{
		BaseUUIDModel:    BaseUUIDModel{ID: id},
		ContactName:      name,
		ApplianceType:    appliance,
		Status:           status,
		IssueDescription: issue,
	}
}

func sampleOrders() []*ServiceRequest {
	return []*ServiceRequest{
		order("a1", "Jane Doe", ApplianceFridge, StatusPending, "Not cooling at all"),
		order("b2", "John Smith", ApplianceOven, StatusCompleted, "Door will not close"),
		order("c3", "Fred Fridge", ApplianceDishwasher, StatusPending, "Leaking water everywhere"),
		order("d4", "Ann Lee", ApplianceWashingMachine, StatusCancelled, "Drum makes a loud noise"),
	}
}

func newController(t *testing.T, repo repositories.ServiceRequestRepository) (*AdminController, *events.EventBus) {
	t.Helper()
	bus := events.New()
	t.Cleanup(func() { _ = bus.Close() })
	return New(repo, services.NewCacheInvalidationService(bus, nil), metrics.New()), bus
}

func ids(orders []*ServiceRequest) []string {
	result := make([]string, 0, len(orders))
	for _, order := range orders {
		result = append(result, order.ID)
	}
	return result
}

func TestFilterOrders(t *testing.T) {
	tests := []struct {
		name   string
		status string
		term   string
		want   []string
	}{
		{name: "no filters", want: []string{"a1", "b2", "c3", "d4"}},
		{name: "all status", status: "all", want: []string{"a1", "b2", "c3", "d4"}},
		{name: "pending", status: "pending", want: []string{"a1", "c3"}},
		{name: "completed", status: "completed", want: []string{"b2"}},
		{name: "appliance type any case", term: "FRIDGE", want: []string{"a1", "c3"}},
		{name: "contact name", term: "smith", want: []string{"b2"}},
		{name: "id", term: "D4", want: []string{"d4"}},
		{name: "issue description", term: "leaking", want: []string{"c3"}},
		{name: "status and term", status: "pending", term: "fridge", want: []string{"a1", "c3"}},
		{name: "status excludes term match", status: "completed", term: "fridge", want: []string{}},
		{name: "no match", term: "microwave", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(FilterOrders(sampleOrders(), tt.status, tt.term)))
		})
	}
}

func TestFilterOrders_DoesNotModifyInput(t *testing.T) {
	orders := sampleOrders()
	before := ids(orders)

	FilterOrders(orders, "pending", "fridge")

	assert.Equal(t, before, ids(orders))
	assert.Equal(t, "Jane Doe", orders[0].ContactName)
	assert.Equal(t, StatusPending, orders[0].Status)
}

func TestAdminController_ListOrders(t *testing.T) {
	controller, _ := newController(t, newFakeRepo(sampleOrders()...))

	list, err := controller.ListOrders(context.Background(), "pending", "")
	require.NoError(t, err)

	assert.Equal(t, 4, list.Total)
	assert.Equal(t, 2, list.Filtered)
	assert.Len(t, list.Orders, 2)
}

func TestAdminController_ListOrdersError(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("disk I/O error")
	controller, _ := newController(t, repo)

	_, err := controller.ListOrders(context.Background(), "", "")
	assert.ErrorIs(t, err, repo.listErr)
}

func TestAdminController_UpdateStatusPublishesEvent(t *testing.T) {
	repo := newFakeRepo(sampleOrders()...)
	controller, bus := newController(t, repo)
	feed, cancel := bus.Subscribe(events.ChannelOrders)
	defer cancel()

	updated, err := controller.UpdateStatus(context.Background(), "a1", "in-progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, updated.Status)

	select {
	case event := <-feed:
		assert.Equal(t, events.TypeOrderUpdated, event.Type)
		assert.Equal(t, "a1", event.Data["id"])
		assert.Equal(t, "in-progress", event.Data["status"])
	case <-time.After(time.Second):
		t.Fatal("expected order.updated event")
	}
}

func TestAdminController_UpdateErrors(t *testing.T) {
	tests := []struct {
		name    string
		run     func(c *AdminController) error
		wantErr error
	}{
		{
			name: "missing id",
			run: func(c *AdminController) error {
				_, err := c.UpdateStatus(context.Background(), "zz", "completed")
				return err
			},
			wantErr: repositories.ErrServiceRequestNotFound,
		},
		{
			name: "invalid status",
			run: func(c *AdminController) error {
				_, err := c.UpdateStatus(context.Background(), "a1", "archived")
				return err
			},
			wantErr: repositories.ErrInvalidStatus,
		},
		{
			name: "empty update",
			run: func(c *AdminController) error {
				_, err := c.Update(context.Background(), "a1", UpdateServiceRequestRequest{})
				return err
			},
			wantErr: ErrEmptyUpdate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, _ := newController(t, newFakeRepo(sampleOrders()...))
			assert.ErrorIs(t, tt.run(controller), tt.wantErr)
		})
	}
}

func TestAdminController_UpdateBothFields(t *testing.T) {
	controller, _ := newController(t, newFakeRepo(sampleOrders()...))
	status := "completed"
	notes := "Fixed on site"

	updated, err := controller.Update(context.Background(), "a1", UpdateServiceRequestRequest{
		Status: &status,
		Notes:  &notes,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, "Fixed on site", updated.Notes)
}

func TestAdminController_DeleteIsANoOp(t *testing.T) {
	repo := newFakeRepo(sampleOrders()...)
	controller, _ := newController(t, repo)

	err := controller.DeleteOrder(context.Background(), "a1")
	assert.ErrorIs(t, err, ErrDeleteNotImplemented)

	count, _ := repo.Count(context.Background())
	assert.Equal(t, int64(4), count)
	assert.Zero(t, repo.updateCalls())
}

func TestNotesEditSession(t *testing.T) {
	t.Run("confirm writes the draft", func(t *testing.T) {
		repo := newFakeRepo(sampleOrders()...)
		controller, _ := newController(t, repo)

		current, err := controller.GetOrder(context.Background(), "b2")
		require.NoError(t, err)

		session := controller.BeginNotesEdit(current)
		assert.Equal(t, "b2", session.OrderID())
		assert.Equal(t, "", session.Draft())

		session.SetDraft("Customer prefers mornings")
		updated, err := session.Confirm(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "Customer prefers mornings", updated.Notes)
		assert.Equal(t, 1, repo.updateCalls())

		_, err = session.Confirm(context.Background())
		assert.ErrorIs(t, err, ErrSessionClosed)
	})

	t.Run("cancel never calls the store", func(t *testing.T) {
		repo := newFakeRepo(sampleOrders()...)
		controller, _ := newController(t, repo)

		current, err := controller.GetOrder(context.Background(), "a1")
		require.NoError(t, err)

		session := controller.BeginNotesEdit(current)
		session.SetDraft("should never be saved")
		session.Cancel()

		assert.Zero(t, repo.updateCalls())
		stored, err := controller.GetOrder(context.Background(), "a1")
		require.NoError(t, err)
		assert.Equal(t, "", stored.Notes)

		_, err = session.Confirm(context.Background())
		assert.ErrorIs(t, err, ErrSessionClosed)
		assert.Zero(t, repo.updateCalls())
	})

	t.Run("failed confirm keeps the session open", func(t *testing.T) {
		repo := newFakeRepo()
		controller, _ := newController(t, repo)

		session := controller.BeginNotesEdit(order("gone", "X", ApplianceOther, StatusPending, ""))
		session.SetDraft("note")

		_, err := session.Confirm(context.Background())
		assert.ErrorIs(t, err, repositories.ErrServiceRequestNotFound)
		assert.Equal(t, "note", session.Draft())
	})
}
