package service

import (
	"context"
	"errors"
	"testing"

	"superfaktura-callback/internal/features/callback/domain"
	orders "superfaktura-callback/internal/features/orders/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var onHoldToProcessing = domain.Transition{
	From: orders.OrderStatusOnHold,
	To:   orders.OrderStatusProcessing,
}

func TestTransitionEngine_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("OnlyOrdersInFromStatus", func(t *testing.T) {
		list := []orders.Order{
			{ID: 1, Status: orders.OrderStatusOnHold},
			{ID: 2, Status: orders.OrderStatusProcessing},
			{ID: 3, Status: orders.OrderStatusCompleted},
			{ID: 4, Status: "On-Hold"},
		}
		repo := newMemoryOrderRepository(list...)

		result, err := NewTransitionEngine(repo).Apply(ctx, list, onHoldToProcessing)

		require.NoError(t, err)
		assert.Equal(t, domain.TransitionResult{Applied: 1, Skipped: 3}, result)
		require.Len(t, repo.saves, 1)
		assert.Equal(t, int64(1), repo.saves[0].ID)
		assert.Equal(t, orders.OrderStatusProcessing, repo.status(1))
		assert.Equal(t, orders.OrderStatusCompleted, repo.status(3))
		assert.Equal(t, "SuperFaktura callback: Order status changed from on-hold to processing.", repo.notes[0])
	})

	t.Run("ReplayIsNoop", func(t *testing.T) {
		repo := newMemoryOrderRepository(orders.Order{ID: 1, Status: orders.OrderStatusOnHold})
		engine := NewTransitionEngine(repo)

		list, _ := repo.FindOrders(ctx, orders.OrderFilter{})
		first, err := engine.Apply(ctx, list, onHoldToProcessing)
		require.NoError(t, err)
		assert.Equal(t, 1, first.Applied)

		list, _ = repo.FindOrders(ctx, orders.OrderFilter{})
		second, err := engine.Apply(ctx, list, onHoldToProcessing)
		require.NoError(t, err)
		assert.Equal(t, domain.TransitionResult{Skipped: 1}, second)
		assert.Len(t, repo.saves, 1)
	})

	t.Run("BlankStatusesDisableTransition", func(t *testing.T) {
		list := []orders.Order{{ID: 1, Status: ""}, {ID: 2, Status: orders.OrderStatusOnHold}}

		for _, tr := range []domain.Transition{{}, {From: ""}, {From: orders.OrderStatusOnHold}, {To: orders.OrderStatusProcessing}} {
			repo := new(MockOrderRepository)

			result, err := NewTransitionEngine(repo).Apply(ctx, list, tr)

			require.NoError(t, err)
			assert.Equal(t, domain.TransitionResult{Skipped: 2}, result)
			repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("BestEffortOnFailure", func(t *testing.T) {
		list := []orders.Order{
			{ID: 1, Status: orders.OrderStatusOnHold},
			{ID: 2, Status: orders.OrderStatusOnHold},
			{ID: 3, Status: orders.OrderStatusOnHold},
		}
		repo := new(MockOrderRepository)
		repo.On("Save", ctx, orders.Order{ID: 1, Status: orders.OrderStatusProcessing}, mock.Anything).Return(nil).Once()
		repo.On("Save", ctx, orders.Order{ID: 2, Status: orders.OrderStatusProcessing}, mock.Anything).Return(errors.New("conflict")).Once()
		repo.On("Save", ctx, orders.Order{ID: 3, Status: orders.OrderStatusProcessing}, mock.Anything).Return(nil).Once()

		result, err := NewTransitionEngine(repo).Apply(ctx, list, onHoldToProcessing)

		assert.Equal(t, domain.TransitionResult{Applied: 2, Failed: 1}, result)
		assert.ErrorIs(t, err, domain.ErrOrderUpdate)
		assert.ErrorIs(t, err, domain.ErrRepository)
		assert.Contains(t, err.Error(), "order 2: conflict")
		repo.AssertExpectations(t)
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		list := []orders.Order{{ID: 1, Status: orders.OrderStatusOnHold}}

		_, err := NewTransitionEngine(newMemoryOrderRepository(list...)).Apply(ctx, list, onHoldToProcessing)

		require.NoError(t, err)
		assert.Equal(t, orders.OrderStatusOnHold, list[0].Status)
	})
}

func TestCheckStatuses(t *testing.T) {
	ctx := context.Background()
	catalog := fixedCatalog{orders.OrderStatusOnHold, orders.OrderStatusProcessing}

	assert.NoError(t, CheckStatuses(ctx, catalog, onHoldToProcessing))
	assert.NoError(t, CheckStatuses(ctx, catalog, domain.Transition{From: orders.OrderStatusOnHold}))

	err := CheckStatuses(ctx, catalog, domain.Transition{From: "paid", To: orders.OrderStatusProcessing})
	assert.ErrorIs(t, err, domain.ErrUnknownStatus)
	assert.Contains(t, err.Error(), `"paid"`)

	err = CheckStatuses(ctx, failingCatalog{}, onHoldToProcessing)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnknownStatus)
}

type fixedCatalog []orders.OrderStatus

func (c fixedCatalog) List(context.Context) ([]orders.OrderStatus, error) {
	return c, nil
}

type failingCatalog struct{}

func (failingCatalog) List(context.Context) ([]orders.OrderStatus, error) {
	return nil, errors.New("store unreachable")
}
