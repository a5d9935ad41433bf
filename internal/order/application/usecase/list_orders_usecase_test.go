package usecase

import (
	"context"
	"testing"

	"github.com/medehssane/tewsilty/internal/model"
	"github.com/medehssane/tewsilty/internal/order/application/ports/in"
	"github.com/medehssane/tewsilty/internal/order/domain"

	"github.com/stretchr/testify/require"
)

func TestGetOrderRoleScoping_ListOrders(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	acceptedOrder(t, repo, "o1", "c1", "d1")

	svc := NewGetOrderService(repo, testLog())

	t.Run("owner reads own order", func(t *testing.T) {
		order, err := svc.Execute(ctx, in.GetOrderInput{OrderID: "o1", UserID: "c1", Role: model.RoleCustomer})
		require.NoError(t, err)
		require.Equal(t, "o1", order.ID)
	})

	t.Run("other customer reads not found", func(t *testing.T) {
		_, err := svc.Execute(ctx, in.GetOrderInput{OrderID: "o1", UserID: "c2", Role: model.RoleCustomer})
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("assigned driver reads own assignment", func(t *testing.T) {
		order, err := svc.Execute(ctx, in.GetOrderInput{OrderID: "o1", UserID: "d1", Role: model.RoleDriver})
		require.NoError(t, err)
		require.Equal(t, "o1", order.ID)
	})

	t.Run("other driver reads not found once claimed", func(t *testing.T) {
		_, err := svc.Execute(ctx, in.GetOrderInput{OrderID: "o1", UserID: "d2", Role: model.RoleDriver})
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	// admin scope covers verification records, never orders
	t.Run("admin reads not found", func(t *testing.T) {
		_, err := svc.Execute(ctx, in.GetOrderInput{OrderID: "o1", UserID: "admin-1", Role: model.RoleAdmin})
		require.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestListDriverOrdersScopes(t *testing.T) {
	ctx := context.Background()
	repo := newMockOrderRepo()
	require.NoError(t, repo.Create(ctx, pendingOrder("o1", "c1")))
	acceptedOrder(t, repo, "o2", "c1", "d1")

	svc := NewListDriverOrdersService(repo, testLog())

	available, err := svc.Execute(ctx, in.ListDriverOrdersInput{DriverID: "d1", Scope: "available"})
	require.NoError(t, err)
	require.Len(t, available.Orders, 1)
	require.Equal(t, "o1", available.Orders[0].ID)
	require.Nil(t, available.Orders[0].DriverID)

	mine, err := svc.Execute(ctx, in.ListDriverOrdersInput{DriverID: "d1", Scope: "mine"})
	require.NoError(t, err)
	require.Len(t, mine.Orders, 1)
	require.Equal(t, "o2", mine.Orders[0].ID)

	_, err = svc.Execute(ctx, in.ListDriverOrdersInput{DriverID: "d1", Scope: "everything"})
	require.Error(t, err)
}
