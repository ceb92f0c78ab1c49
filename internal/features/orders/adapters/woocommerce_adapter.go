package adapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"superfaktura-callback/internal/core/config"
	"superfaktura-callback/internal/core/httpclient"
	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/core/proxy"
	"superfaktura-callback/internal/features/orders/domain"

	"go.uber.org/zap"
)

const (
	apiPrefix = "/wp-json/wc/v3"
	// pageSize is the largest page the WooCommerce REST API allows.
	pageSize = 100
)

// ErrEmptyFilter is returned when FindOrders is called without any criteria.
var ErrEmptyFilter = errors.New("order filter has no criteria")

// WooCommerceAdapter implements ports.OrderRepository using the WooCommerce REST API.
type WooCommerceAdapter struct {
	// client is the HTTP client used for API requests.
	client *http.Client
	// config holds the WooCommerce connection details.
	config config.WooCommerceConfig
}

// NewWooCommerceAdapter creates a new instance of WooCommerceAdapter.
func NewWooCommerceAdapter(cfg config.WooCommerceConfig, proxySettings proxy.Settings) *WooCommerceAdapter {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &WooCommerceAdapter{
		client: httpclient.NewClient(timeout, proxySettings),
		config: cfg,
	}
}

// FindOrders lists orders linked to the invoice ids in the filter.
// The store maps the wc_sf_internal_*_id query vars to meta queries; results are
// re-checked against their meta data so a store ignoring the vars yields no false matches.
func (a *WooCommerceAdapter) FindOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if filter.IsEmpty() {
		return nil, ErrEmptyFilter
	}

	query := url.Values{}
	query.Set("status", "any")
	query.Set("per_page", strconv.Itoa(pageSize))
	for _, kind := range domain.InvoiceKinds {
		if id := filter.InvoiceID(kind); id != 0 {
			query.Set(kind.MetaKey(), id.String())
		}
	}

	orders := make([]domain.Order, 0)
	warned := false
	for page, totalPages := 1, 1; page <= totalPages; page++ {
		query.Set("page", strconv.Itoa(page))

		var wcOrders []woocommerceOrder
		header, err := a.doJSON(ctx, http.MethodGet, "/orders", query, nil, &wcOrders)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}
		totalPages = parseTotalPages(header)

		matched := 0
		for _, wcOrder := range wcOrders {
			order := mapToDomain(wcOrder)
			if !filter.Matches(order) {
				logger.Get().Debug("Skipping order not linked to invoice",
					zap.Int64("order_id", order.ID),
					zap.Int64("proforma_id", int64(filter.ProformaID)),
					zap.Int64("regular_id", int64(filter.RegularID)),
				)
				continue
			}
			orders = append(orders, order)
			matched++
		}

		// A store honouring the invoice query vars never returns a page of unrelated orders.
		if len(wcOrders) > 0 && matched == 0 && !warned {
			warned = true
			logger.Get().Warn("Store ignores invoice filter, scanning all orders",
				zap.Int("page", page),
				zap.Int("total_pages", totalPages),
				zap.String("query", query.Encode()),
			)
		}
	}

	return orders, nil
}

// Save updates the order status and adds note as a private order note.
// A note that cannot be added is logged; the status change is what counts.
func (a *WooCommerceAdapter) Save(ctx context.Context, order domain.Order, note string) error {
	path := fmt.Sprintf("/orders/%d", order.ID)

	body := map[string]string{"status": string(order.Status)}
	if _, err := a.doJSON(ctx, http.MethodPut, path, nil, body, nil); err != nil {
		return fmt.Errorf("failed to update order %d: %w", order.ID, err)
	}

	if note == "" {
		return nil
	}

	noteBody := map[string]any{"note": note, "customer_note": false}
	if _, err := a.doJSON(ctx, http.MethodPost, path+"/notes", nil, noteBody, nil); err != nil {
		logger.Get().Warn("Failed to add order note",
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}

	return nil
}

// HealthCheck verifies that the WooCommerce API is reachable and credentials are valid.
func (a *WooCommerceAdapter) HealthCheck(ctx context.Context) error {
	query := url.Values{}
	query.Set("per_page", "1")

	var probe []json.RawMessage
	if _, err := a.doJSON(ctx, http.MethodGet, "/orders", query, nil, &probe); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// doJSON sends an authenticated request, encoding in as the JSON body when not nil and
// decoding the response into out when not nil. It returns the response headers.
func (a *WooCommerceAdapter) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	endpoint := a.config.URL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", a.basicAuth())
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("woocommerce API returned status: %d", resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.Header, nil
}

// basicAuth builds the Authorization header value from the consumer key pair.
func (a *WooCommerceAdapter) basicAuth() string {
	authVal := make([]byte, 0, len(a.config.ConsumerKey)+len(a.config.ConsumerSecret)+1)
	authVal = fmt.Appendf(authVal, "%s:%s", a.config.ConsumerKey, a.config.ConsumerSecret)
	return "Basic " + base64.StdEncoding.EncodeToString(authVal)
}

// parseTotalPages reads X-WP-TotalPages, defaulting to a single page.
func parseTotalPages(header http.Header) int {
	n, err := strconv.Atoi(header.Get("X-WP-TotalPages"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// mapToDomain converts a raw WooCommerce order into a domain Order.
func mapToDomain(wcOrder woocommerceOrder) domain.Order {
	order := domain.Order{
		ID:     wcOrder.ID,
		Status: domain.OrderStatus(wcOrder.Status),
	}

	for _, meta := range wcOrder.MetaData {
		switch meta.Key {
		case domain.InvoiceKindProforma.MetaKey():
			order.ProformaInvoiceID = parseInvoiceID(meta.Value)
		case domain.InvoiceKindRegular.MetaKey():
			order.RegularInvoiceID = parseInvoiceID(meta.Value)
		}
	}

	return order
}

// parseInvoiceID accepts the meta value as a JSON string or number.
// Anything else, or a non-positive number, yields zero.
func parseInvoiceID(value interface{}) domain.InvoiceID {
	var raw string
	switch v := value.(type) {
	case string:
		raw = strings.TrimSpace(v)
	case float64:
		raw = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return 0
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return domain.InvoiceID(id)
}

// internal structs for mapping

// woocommerceOrder is the subset of the WooCommerce order resource the service reads.
type woocommerceOrder struct {
	// ID is the unique order ID.
	ID int64 `json:"id"`
	// Status is the order status slug.
	Status string `json:"status"`
	// MetaData contains the invoicing plugin's fields.
	MetaData []wcMetaData `json:"meta_data"`
}

// wcMetaData represents a key-value pair in WooCommerce metadata.
type wcMetaData struct {
	// Key is the metadata key name.
	Key string `json:"key"`
	// Value is the metadata value, which can be of various types.
	Value interface{} `json:"value"`
}
