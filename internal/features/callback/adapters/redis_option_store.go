package adapters

import (
	"context"
	"errors"
	"fmt"

	"superfaktura-callback/internal/core/cache"
	"superfaktura-callback/internal/features/callback/domain"
	orders "superfaktura-callback/internal/features/orders/domain"
)

// Option keys in the configuration store.
const (
	OptionSecretKey    = "woo_superfaktura_callback_secret_key"
	OptionEnabled      = "woo_superfaktura_callback_enabled"
	OptionStatusBefore = "woo_superfaktura_callback_order_status_before"
	OptionStatusAfter  = "woo_superfaktura_callback_order_status_after"
)

// Stored values of the enabled option; only "yes" switches the callback on.
const (
	optionEnabledValue  = "yes"
	optionDisabledValue = "no"
)

// OptionStore implements ports.SecretStore, ports.SecretWriter and ports.SettingsStore
// on top of the cache port.
// Options missing from the store fall back to defaults.
type OptionStore struct {
	cache    cache.Cache
	defaults domain.Settings
}

// NewOptionStore creates a new OptionStore.
func NewOptionStore(c cache.Cache, defaults domain.Settings) *OptionStore {
	return &OptionStore{
		cache:    c,
		defaults: defaults,
	}
}

// GetSecret returns the stored secret, or "" when none exists.
func (s *OptionStore) GetSecret(ctx context.Context) (string, error) {
	secret, _, err := s.option(ctx, OptionSecretKey)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// SetSecretIfAbsent stores the secret with no expiration unless one is already stored.
func (s *OptionStore) SetSecretIfAbsent(ctx context.Context, secret string) (bool, error) {
	stored, err := s.cache.SetIfAbsent(ctx, OptionSecretKey, []byte(secret))
	if err != nil {
		return false, fmt.Errorf("failed to store secret: %w", err)
	}
	return stored, nil
}

// SetSecret overwrites the stored secret.
func (s *OptionStore) SetSecret(ctx context.Context, secret string) error {
	return s.setOption(ctx, OptionSecretKey, secret)
}

// SetEnabled stores the enabled flag in its "yes"/"no" form.
func (s *OptionStore) SetEnabled(ctx context.Context, enabled bool) error {
	value := optionDisabledValue
	if enabled {
		value = optionEnabledValue
	}
	return s.setOption(ctx, OptionEnabled, value)
}

// SetTransition stores both statuses. A blank status is stored as such and disables transitions.
func (s *OptionStore) SetTransition(ctx context.Context, t domain.Transition) error {
	if err := s.setOption(ctx, OptionStatusBefore, string(t.From)); err != nil {
		return err
	}
	return s.setOption(ctx, OptionStatusAfter, string(t.To))
}

// Settings reads the enabled flag and the status pair.
func (s *OptionStore) Settings(ctx context.Context) (domain.Settings, error) {
	settings := s.defaults

	enabled, ok, err := s.option(ctx, OptionEnabled)
	if err != nil {
		return domain.Settings{}, err
	}
	if ok {
		settings.Enabled = enabled == optionEnabledValue
	}

	from, ok, err := s.option(ctx, OptionStatusBefore)
	if err != nil {
		return domain.Settings{}, err
	}
	if ok {
		settings.Transition.From = orders.OrderStatus(from)
	}

	to, ok, err := s.option(ctx, OptionStatusAfter)
	if err != nil {
		return domain.Settings{}, err
	}
	if ok {
		settings.Transition.To = orders.OrderStatus(to)
	}

	return settings, nil
}

// option returns the stored value and whether the key exists.
func (s *OptionStore) option(ctx context.Context, key string) (string, bool, error) {
	data, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read option %s: %w", key, err)
	}
	return string(data), true, nil
}

// setOption stores value under key with no expiration.
func (s *OptionStore) setOption(ctx context.Context, key, value string) error {
	if err := s.cache.Set(ctx, key, []byte(value), 0); err != nil {
		return fmt.Errorf("failed to write option %s: %w", key, err)
	}
	return nil
}
