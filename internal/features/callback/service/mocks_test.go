package service

import (
	"context"
	"slices"
	"sync"

	"superfaktura-callback/internal/features/callback/domain"
	orders "superfaktura-callback/internal/features/orders/domain"

	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of orders ports.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindOrders(ctx context.Context, filter orders.OrderFilter) ([]orders.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]orders.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order orders.Order, note string) error {
	args := m.Called(ctx, order, note)
	return args.Error(0)
}

// MockSecretStore is a mock implementation of ports.SecretStore
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) GetSecret(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockSecretStore) SetSecretIfAbsent(ctx context.Context, secret string) (bool, error) {
	args := m.Called(ctx, secret)
	return args.Bool(0), args.Error(1)
}

// staticSettings is a ports.SettingsProvider returning fixed settings.
type staticSettings struct {
	settings domain.Settings
	err      error
}

func (s staticSettings) Settings(context.Context) (domain.Settings, error) {
	return s.settings, s.err
}

// memorySecretStore is a ports.SecretStore kept in memory.
type memorySecretStore struct {
	mu     sync.Mutex
	secret string
	sets   int
}

func (s *memorySecretStore) GetSecret(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secret, nil
}

func (s *memorySecretStore) SetSecretIfAbsent(_ context.Context, secret string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secret != "" {
		return false, nil
	}
	s.secret = secret
	s.sets++
	return true, nil
}

// memoryOrderRepository is an orders ports.OrderRepository kept in memory.
type memoryOrderRepository struct {
	mu     sync.Mutex
	orders map[int64]orders.Order
	saves  []orders.Order
	notes  []string
}

func newMemoryOrderRepository(list ...orders.Order) *memoryOrderRepository {
	r := &memoryOrderRepository{orders: make(map[int64]orders.Order)}
	for _, o := range list {
		r.orders[o.ID] = o
	}
	return r
}

func (r *memoryOrderRepository) FindOrders(_ context.Context, filter orders.OrderFilter) ([]orders.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]orders.Order, 0)
	ids := make([]int64, 0, len(r.orders))
	for id := range r.orders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if o := r.orders[id]; filter.Matches(o) {
			found = append(found, o)
		}
	}
	return found, nil
}

func (r *memoryOrderRepository) Save(_ context.Context, order orders.Order, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	r.saves = append(r.saves, order)
	r.notes = append(r.notes, note)
	return nil
}

func (r *memoryOrderRepository) status(id int64) orders.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[id].Status
}

// memorySettingsStore is a ports.SettingsStore and ports.SecretWriter kept in memory.
type memorySettingsStore struct {
	settings domain.Settings
	secret   string
	writes   int
	err      error
}

func (s *memorySettingsStore) Settings(context.Context) (domain.Settings, error) {
	return s.settings, nil
}

func (s *memorySettingsStore) SetEnabled(_ context.Context, enabled bool) error {
	if s.err != nil {
		return s.err
	}
	s.settings.Enabled = enabled
	s.writes++
	return nil
}

func (s *memorySettingsStore) SetTransition(_ context.Context, t domain.Transition) error {
	if s.err != nil {
		return s.err
	}
	s.settings.Transition = t
	s.writes++
	return nil
}

func (s *memorySettingsStore) SetSecret(_ context.Context, secret string) error {
	if s.err != nil {
		return s.err
	}
	s.secret = secret
	s.writes++
	return nil
}
