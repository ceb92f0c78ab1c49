package adapter

import (
	"context"
	"fmt"
	"net/http"

	"superfaktura-callback/internal/features/orders/domain"
	"superfaktura-callback/internal/features/orders/ports"
)

const (
	// CatalogDefault lists the statuses WooCommerce registers out of the box.
	CatalogDefault = "default"
	// CatalogWooCommerce asks the store, so statuses added by plugins are included.
	CatalogWooCommerce = "woocommerce"
)

// NewStatusCatalog returns the catalog variant named by kind.
func NewStatusCatalog(kind string, wc *WooCommerceAdapter) (ports.StatusCatalog, error) {
	switch kind {
	case "", CatalogDefault:
		return DefaultStatusCatalog{}, nil
	case CatalogWooCommerce:
		return &WooCommerceStatusCatalog{adapter: wc}, nil
	default:
		return nil, fmt.Errorf("unknown status catalog: %q", kind)
	}
}

// DefaultStatusCatalog is the fixed list of core WooCommerce statuses.
type DefaultStatusCatalog struct{}

// List returns the core statuses.
func (DefaultStatusCatalog) List(context.Context) ([]domain.OrderStatus, error) {
	return []domain.OrderStatus{
		domain.OrderStatusPending,
		domain.OrderStatusProcessing,
		domain.OrderStatusOnHold,
		domain.OrderStatusCompleted,
		domain.OrderStatusCancelled,
		domain.OrderStatusRefunded,
		domain.OrderStatusFailed,
		domain.OrderStatusCheckoutDraft,
	}, nil
}

// WooCommerceStatusCatalog reads the statuses registered in the store from the order totals report.
type WooCommerceStatusCatalog struct {
	adapter *WooCommerceAdapter
}

// List returns every status slug the store reports.
func (c *WooCommerceStatusCatalog) List(ctx context.Context) ([]domain.OrderStatus, error) {
	var totals []wcStatusTotal
	if _, err := c.adapter.doJSON(ctx, http.MethodGet, "/reports/orders/totals", nil, nil, &totals); err != nil {
		return nil, fmt.Errorf("failed to list order statuses: %w", err)
	}

	statuses := make([]domain.OrderStatus, 0, len(totals))
	for _, t := range totals {
		if t.Slug != "" {
			statuses = append(statuses, domain.OrderStatus(t.Slug))
		}
	}
	return statuses, nil
}

// wcStatusTotal is one row of the order totals report.
type wcStatusTotal struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}
