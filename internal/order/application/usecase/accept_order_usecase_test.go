package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/application/ports/out"
	"github.com/medehssane/tewsilty/internal/order/domain"

	"github.com/stretchr/testify/require"
)

func pendingOrder(id, customerID string) *domain.Order {
	now := time.Now().UTC()
	return &domain.Order{
		ID:               id,
		CustomerID:       customerID,
		PickupLocation:   "Tevragh Zeina",
		DeliveryLocation: "Ksar",
		RecipientPhone:   "+22230000002",
		Status:           model.OrderStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func ptr(v float64) *float64 { return &v }

func newAcceptService(repo *mockOrderRepo, verified map[string]bool, fixes map[string]*out.DriverFix) (*AcceptOrderService, *mockPublisher) {
	pub := &mockPublisher{}
	svc := NewAcceptOrderService(
		repo,
		&mockDirectory{verified: verified},
		&mockLocator{fixes: fixes},
		pub,
		testLog(),
	)
	return svc, pub
}

func TestAcceptOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

	svc, pub := newAcceptService(repo, map[string]bool{"d1": true}, nil)

	output, err := svc.Execute(ctx, in.AcceptOrderInput{
		OrderID:  "o1",
		DriverID: "d1",
		Lat:      ptr(18.08),
		Lng:      ptr(-15.98),
	})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusAccepted, output.Status)
	require.Equal(t, "d1", output.DriverID)

	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	require.True(t, stored.AssignedTo("d1"))
	require.Equal(t, []string{model.OrderStatusAccepted}, pub.statuses())
}

func TestAcceptOrderUnverifiedDriver(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

	svc, _ := newAcceptService(repo, map[string]bool{}, nil)

	_, err := svc.Execute(ctx, in.AcceptOrderInput{
		OrderID:  "o1",
		DriverID: "d1",
		Lat:      ptr(18.08),
		Lng:      ptr(-15.98),
	})
	require.ErrorIs(t, err, domain.ErrDriverNotVerified)

	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, stored.Status)
}

func TestAcceptOrderLocationFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh cached fix is used", func(t *testing.T) {
		repo := newMockOrderRepo()
		require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

		svc, _ := newAcceptService(repo, map[string]bool{"d1": true}, map[string]*out.DriverFix{
			"d1": {Lat: 18.1, Lng: -15.9, UpdatedAt: time.Now()},
		})

		_, err := svc.Execute(ctx, in.AcceptOrderInput{OrderID: "o1", DriverID: "d1"})
		require.NoError(t, err)

		stored, _ := repo.FindByID(ctx, "o1")
		require.NotNil(t, stored.DriverLat)
		require.InDelta(t, 18.1, *stored.DriverLat, 1e-9)
	})

	t.Run("stale fix rejected", func(t *testing.T) {
		repo := newMockOrderRepo()
		require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

		svc, _ := newAcceptService(repo, map[string]bool{"d1": true}, map[string]*out.DriverFix{
			"d1": {Lat: 18.1, Lng: -15.9, UpdatedAt: time.Now().Add(-10 * time.Minute)},
		})

		_, err := svc.Execute(ctx, in.AcceptOrderInput{OrderID: "o1", DriverID: "d1"})
		require.ErrorIs(t, err, domain.ErrLocationRequired)
	})

	t.Run("no fix at all", func(t *testing.T) {
		repo := newMockOrderRepo()
		require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

		svc, _ := newAcceptService(repo, map[string]bool{"d1": true}, nil)

		_, err := svc.Execute(ctx, in.AcceptOrderInput{OrderID: "o1", DriverID: "d1"})
		require.ErrorIs(t, err, domain.ErrLocationRequired)
	})
}

func TestAcceptOrderInvalidCoordinates(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

	svc, _ := newAcceptService(repo, map[string]bool{"d1": true}, nil)

	_, err := svc.Execute(ctx, in.AcceptOrderInput{
		OrderID:  "o1",
		DriverID: "d1",
		Lat:      ptr(123.0),
		Lng:      ptr(-15.98),
	})
	require.ErrorIs(t, err, domain.ErrInvalidCoordinates)
}

// The core race: many verified drivers hit accept on the same pending
// order at once. Exactly one must win; the rest get a conflict and the
// stored order keeps the winner.
func TestAcceptOrderConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

	const drivers = 20
	verified := make(map[string]bool, drivers)
	ids := make([]string, drivers)
	for i := range ids {
		ids[i] = fmt.Sprintf("driver-%02d", i)
		verified[ids[i]] = true
	}

	svc, pub := newAcceptService(repo, verified, nil)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []string
		conflicts int
	)

	for _, id := range ids {
		wg.Add(1)
		go func(driverID string) {
			defer wg.Done()
			_, err := svc.Execute(ctx, in.AcceptOrderInput{
				OrderID:  "o1",
				DriverID: driverID,
				Lat:      ptr(18.08),
				Lng:      ptr(-15.98),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners = append(winners, driverID)
			} else {
				require.ErrorIs(t, err, domain.ErrOrderConflict)
				conflicts++
			}
		}(id)
	}
	wg.Wait()

	require.Len(t, winners, 1)
	require.Equal(t, drivers-1, conflicts)

	stored, err := repo.FindByID(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusAccepted, stored.Status)
	require.True(t, stored.AssignedTo(winners[0]))

	// only the winner published an accepted event
	require.Equal(t, []string{model.OrderStatusAccepted}, pub.statuses())
}
