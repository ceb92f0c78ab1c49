package ports

import (
	"context"

	"superfaktura-callback/internal/features/orders/domain"
)

// OrderRepository is the store that owns orders.
// This is a Secondary Port (Driven Port).
type OrderRepository interface {
	// FindOrders returns the orders matching the filter. No match is an empty slice, not an error.
	FindOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)
	// Save persists the order's current status, attaching note to the order history when not empty.
	Save(ctx context.Context, order domain.Order, note string) error
}

// StatusCatalog lists the order statuses known to the store.
type StatusCatalog interface {
	List(ctx context.Context) ([]domain.OrderStatus, error)
}
