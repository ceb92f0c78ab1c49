package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/features/callback/domain"
	"superfaktura-callback/internal/features/callback/ports"
	orderports "superfaktura-callback/internal/features/orders/ports"

	"go.uber.org/zap"
)

// SettingsService applies operator changes to the callback settings.
type SettingsService struct {
	store   ports.SettingsStore
	secrets ports.SecretWriter
	catalog orderports.StatusCatalog
	random  io.Reader
}

// NewSettingsService creates a new SettingsService.
// New statuses are only accepted when catalog lists them.
func NewSettingsService(store ports.SettingsStore, secrets ports.SecretWriter, catalog orderports.StatusCatalog) *SettingsService {
	return &SettingsService{
		store:   store,
		secrets: secrets,
		catalog: catalog,
		random:  rand.Reader,
	}
}

// Update stores the fields set in u and returns the resulting settings.
// Every new status is checked before anything is written, so a rejected update changes nothing.
// A blank status is accepted and disables transitions.
func (s *SettingsService) Update(ctx context.Context, u domain.SettingsUpdate) (domain.Settings, error) {
	settings, err := s.store.Settings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("service: failed to read settings: %w", err)
	}

	if u.From != nil || u.To != nil {
		// Only the statuses being changed are checked; blank ones pass.
		var changed domain.Transition
		next := settings.Transition
		if u.From != nil {
			changed.From, next.From = *u.From, *u.From
		}
		if u.To != nil {
			changed.To, next.To = *u.To, *u.To
		}
		if err := CheckStatuses(ctx, s.catalog, changed); err != nil {
			return domain.Settings{}, err
		}

		if err := s.store.SetTransition(ctx, next); err != nil {
			return domain.Settings{}, fmt.Errorf("service: failed to store transition: %w", err)
		}
		settings.Transition = next
	}

	if u.Enabled != nil {
		if err := s.store.SetEnabled(ctx, *u.Enabled); err != nil {
			return domain.Settings{}, fmt.Errorf("service: failed to store enabled flag: %w", err)
		}
		settings.Enabled = *u.Enabled
	}

	logger.Get().Info("Callback settings updated",
		zap.Bool("enabled", settings.Enabled),
		zap.String("status_from", string(settings.Transition.From)),
		zap.String("status_to", string(settings.Transition.To)),
	)
	return settings, nil
}

// RotateSecret replaces the stored secret with a freshly generated one.
// Callbacks signed with the previous secret are rejected from then on.
func (s *SettingsService) RotateSecret(ctx context.Context) (string, error) {
	secret, err := GenerateSecret(s.random)
	if err != nil {
		return "", err
	}
	if err := s.secrets.SetSecret(ctx, secret); err != nil {
		return "", fmt.Errorf("service: failed to store secret: %w", err)
	}

	logger.Get().Info("Rotated callback secret key")
	return secret, nil
}
