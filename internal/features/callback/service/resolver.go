package service

import (
	"context"
	"fmt"

	"superfaktura-callback/internal/features/callback/domain"
	orders "superfaktura-callback/internal/features/orders/domain"
	orderports "superfaktura-callback/internal/features/orders/ports"
)

// OrderResolver finds the orders that reference an invoice.
type OrderResolver struct {
	repo orderports.OrderRepository
}

// NewOrderResolver creates a new OrderResolver.
func NewOrderResolver(repo orderports.OrderRepository) *OrderResolver {
	return &OrderResolver{
		repo: repo,
	}
}

// Resolve queries the repository once per invoice kind and returns the union,
// each order once, in the order first seen.
func (r *OrderResolver) Resolve(ctx context.Context, invoiceID orders.InvoiceID) ([]orders.Order, error) {
	seen := make(map[int64]struct{})
	resolved := make([]orders.Order, 0)

	for _, kind := range orders.InvoiceKinds {
		found, err := r.repo.FindOrders(ctx, orders.ByInvoice(kind, invoiceID))
		if err != nil {
			return nil, fmt.Errorf("%w: %s invoice %d: %w", domain.ErrOrderLookup, kind, invoiceID, err)
		}

		for _, order := range found {
			if _, dup := seen[order.ID]; dup {
				continue
			}
			seen[order.ID] = struct{}{}
			resolved = append(resolved, order)
		}
	}

	return resolved, nil
}
