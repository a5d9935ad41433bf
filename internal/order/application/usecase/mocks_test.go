package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/order/domain"
	"github.com/medehssane/tewsilty/internal/shared/logger"
)

func testLog() *logger.Logger {
	return logger.NewLogger("test")
}

// mockOrderRepo mimics the conditional-update behavior of the Postgres
// repository: every lifecycle write checks the current status under a lock.
type mockOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*domain.Order)}
}

func (m *mockOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) FindByID(ctx context.Context, orderID string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*domain.Order
	for _, o := range m.orders {
		if o.CustomerID == customerID {
			cp := *o
			res = append(res, &cp)
		}
	}
	sortNewestFirst(res)
	return res, nil
}

func (m *mockOrderRepo) FindPending(ctx context.Context, limit int) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*domain.Order
	for _, o := range m.orders {
		if o.Status == model.OrderStatusPending {
			cp := *o
			res = append(res, &cp)
		}
	}
	sortNewestFirst(res)
	if limit > 0 && len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (m *mockOrderRepo) FindByDriver(ctx context.Context, driverID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*domain.Order
	for _, o := range m.orders {
		if o.DriverID != nil && *o.DriverID == driverID {
			cp := *o
			res = append(res, &cp)
		}
	}
	sortNewestFirst(res)
	return res, nil
}

func (m *mockOrderRepo) FindActiveByDriver(ctx context.Context, driverID string) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*domain.Order
	for _, o := range m.orders {
		if o.DriverID != nil && *o.DriverID == driverID && o.IsActive() {
			cp := *o
			res = append(res, &cp)
		}
	}
	sortNewestFirst(res)
	return res, nil
}

func (m *mockOrderRepo) ClaimPending(ctx context.Context, orderID, driverID string, lat, lng float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != model.OrderStatusPending {
		return domain.ErrOrderConflict
	}
	d := driverID
	o.DriverID = &d
	o.Status = model.OrderStatusAccepted
	o.DriverLat = &lat
	o.DriverLng = &lng
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockOrderRepo) MarkInProgress(ctx context.Context, orderID, driverID string) error {
	return m.conditional(orderID, driverID, model.OrderStatusAccepted, model.OrderStatusInProgress)
}

func (m *mockOrderRepo) MarkCompleted(ctx context.Context, orderID, driverID string) error {
	return m.conditional(orderID, driverID, model.OrderStatusInProgress, model.OrderStatusCompleted)
}

func (m *mockOrderRepo) conditional(orderID, driverID, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != from || o.DriverID == nil || *o.DriverID != driverID {
		return domain.ErrOrderConflict
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockOrderRepo) CancelByDriver(ctx context.Context, orderID, driverID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != model.OrderStatusAccepted || o.DriverID == nil || *o.DriverID != driverID {
		return domain.ErrOrderConflict
	}
	o.Status = model.OrderStatusCancelled
	o.DriverID = nil
	o.CancellationReason = &reason
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockOrderRepo) CancelByCustomer(ctx context.Context, orderID, customerID, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[orderID]
	if !ok || o.Status != model.OrderStatusPending || o.CustomerID != customerID {
		return domain.ErrOrderConflict
	}
	o.Status = model.OrderStatusCancelled
	o.CancellationReason = &reason
	o.UpdatedAt = time.Now()
	return nil
}

func (m *mockOrderRepo) UpdateDriverPosition(ctx context.Context, driverID string, lat, lng float64) ([]*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*domain.Order
	for _, o := range m.orders {
		if o.DriverID != nil && *o.DriverID == driverID && o.IsActive() {
			o.DriverLat = &lat
			o.DriverLng = &lng
			cp := *o
			res = append(res, &cp)
		}
	}
	return res, nil
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}

// mockPublisher records published events.
type mockPublisher struct {
	mu     sync.Mutex
	events []out.OrderEventData
}

func (m *mockPublisher) record(event out.OrderEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockPublisher) PublishOrderCreated(ctx context.Context, e out.OrderEventData) error {
	return m.record(e)
}
func (m *mockPublisher) PublishOrderAccepted(ctx context.Context, e out.OrderEventData) error {
	return m.record(e)
}
func (m *mockPublisher) PublishOrderStarted(ctx context.Context, e out.OrderEventData) error {
	return m.record(e)
}
func (m *mockPublisher) PublishOrderCompleted(ctx context.Context, e out.OrderEventData) error {
	return m.record(e)
}
func (m *mockPublisher) PublishOrderCancelled(ctx context.Context, e out.OrderEventData) error {
	return m.record(e)
}

func (m *mockPublisher) statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]string, 0, len(m.events))
	for _, e := range m.events {
		res = append(res, e.Status)
	}
	return res
}

// mockDirectory answers verification checks from a fixed set.
type mockDirectory struct {
	verified map[string]bool
}

func (m *mockDirectory) IsVerified(ctx context.Context, driverID string) (bool, error) {
	return m.verified[driverID], nil
}

// mockLocator serves cached fixes from a map.
type mockLocator struct {
	fixes map[string]*out.DriverFix
}

func (m *mockLocator) LastFix(ctx context.Context, driverID string) (*out.DriverFix, error) {
	return m.fixes[driverID], nil
}
