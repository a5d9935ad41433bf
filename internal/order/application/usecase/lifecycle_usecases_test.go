package usecase

import (
	"context"
	"testing"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/domain"

	"github.com/stretchr/testify/require"
)

func acceptedOrder(t *testing.T, repo *mockOrderRepo, orderID, customerID, driverID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, pendingOrder(orderID, customerID)))
	require.NoError(t, repo.ClaimPending(ctx, orderID, driverID, 18.08, -15.98))
}

func TestStartOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")

	pub := &mockPublisher{}
	svc := NewStartOrderService(repo, pub, testLog())

	output, err := svc.Execute(ctx, in.StartOrderInput{OrderID: "o1", DriverID: "d1"})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusInProgress, output.Status)
	require.Equal(t, []string{model.OrderStatusInProgress}, pub.statuses())
}

func TestStartOrderWrongDriver(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")

	svc := NewStartOrderService(repo, &mockPublisher{}, testLog())

	_, err := svc.Execute(ctx, in.StartOrderInput{OrderID: "o1", DriverID: "d2"})
	require.ErrorIs(t, err, domain.ErrOrderConflict)

	stored, _ := repo.FindByID(ctx, "o1")
	require.Equal(t, model.OrderStatusAccepted, stored.Status)
}

func TestStartOrderNotAcceptedYet(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

	svc := NewStartOrderService(repo, &mockPublisher{}, testLog())

	// pending -> in_progress is not a legal move
	_, err := svc.Execute(ctx, in.StartOrderInput{OrderID: "o1", DriverID: "d1"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCompleteOrder(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")
	require.NoError(t, repo.MarkInProgress(ctx, "o1", "d1"))

	pub := &mockPublisher{}
	svc := NewCompleteOrderService(repo, pub, testLog())

	output, err := svc.Execute(ctx, in.CompleteOrderInput{OrderID: "o1", DriverID: "d1"})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCompleted, output.Status)

	// completed is terminal
	_, err = svc.Execute(ctx, in.CompleteOrderInput{OrderID: "o1", DriverID: "d1"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCompleteOrderSkippingInProgress(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")

	svc := NewCompleteOrderService(repo, &mockPublisher{}, testLog())

	// accepted -> completed is not a legal move
	_, err := svc.Execute(ctx, in.CompleteOrderInput{OrderID: "o1", DriverID: "d1"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelOrderByDriver(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")

	pub := &mockPublisher{}
	svc := NewCancelOrderService(repo, pub, testLog())

	output, err := svc.Execute(ctx, in.CancelOrderInput{OrderID: "o1", DriverID: "d1", Reason: "vehicle breakdown"})
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusCancelled, output.Status)

	stored, _ := repo.FindByID(ctx, "o1")
	require.Nil(t, stored.DriverID)
	require.NotNil(t, stored.CancellationReason)
	require.Equal(t, "vehicle breakdown", *stored.CancellationReason)

	// cancelled is terminal: the order does not return to the pool
	pool, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, pool)
}

func TestCancelOrderInProgressRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")
	require.NoError(t, repo.MarkInProgress(ctx, "o1", "d1"))

	svc := NewCancelOrderService(repo, &mockPublisher{}, testLog())

	// in_progress -> cancelled is not a legal move
	_, err := svc.Execute(ctx, in.CancelOrderInput{OrderID: "o1", DriverID: "d1", Reason: "changed my mind"})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancelOrderByCustomer(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))

	svc := NewCancelOrderByCustomerService(repo, &mockPublisher{}, testLog())

	t.Run("other customers cannot cancel", func(t *testing.T) {
		_, err := svc.Execute(ctx, in.CancelOrderByCustomerInput{OrderID: "o1", CustomerID: "c2"})
		require.ErrorIs(t, err, domain.ErrOrderConflict)
	})

	t.Run("owner cancels pending order", func(t *testing.T) {
		output, err := svc.Execute(ctx, in.CancelOrderByCustomerInput{OrderID: "o1", CustomerID: "c1", Reason: "no longer needed"})
		require.NoError(t, err)
		require.Equal(t, model.OrderStatusCancelled, output.Status)
	})

	t.Run("cannot cancel after a driver accepted", func(t *testing.T) {
		repo2 := newMockOrderRepo()
		acceptedOrder(t, repo2, "o2", "c1", "d1")
		svc2 := NewCancelOrderByCustomerService(repo2, &mockPublisher{}, testLog())

		_, err := svc2.Execute(ctx, in.CancelOrderByCustomerInput{OrderID: "o2", CustomerID: "c1"})
		require.ErrorIs(t, err, domain.ErrOrderConflict)
	})
}
