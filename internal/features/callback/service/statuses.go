package service

import (
	"context"
	"fmt"
	"slices"

	"superfaktura-callback/internal/features/callback/domain"
	orders "superfaktura-callback/internal/features/orders/domain"
	orderports "superfaktura-callback/internal/features/orders/ports"
)

// CheckStatuses verifies that both statuses of t are known to the catalog.
// Blank statuses are not checked; they disable the transition instead.
func CheckStatuses(ctx context.Context, catalog orderports.StatusCatalog, t domain.Transition) error {
	known, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to list statuses: %w", err)
	}

	for _, status := range []orders.OrderStatus{t.From, t.To} {
		if status.IsBlank() {
			continue
		}
		if !slices.Contains(known, status) {
			return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, status)
		}
	}
	return nil
}
