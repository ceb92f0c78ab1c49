package service

import (
	"context"
	"fmt"

	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/features/callback/domain"
	"superfaktura-callback/internal/features/callback/ports"
	orderports "superfaktura-callback/internal/features/orders/ports"

	"go.uber.org/zap"
)

// CallbackServiceImpl implements ports.CallbackService.
type CallbackServiceImpl struct {
	settings      ports.SettingsProvider
	authenticator *Authenticator
	resolver      *OrderResolver
	engine        *TransitionEngine
}

// NewCallbackService wires the authenticator, resolver and transition engine.
func NewCallbackService(settings ports.SettingsProvider, secrets ports.SecretStore, repo orderports.OrderRepository) *CallbackServiceImpl {
	return &CallbackServiceImpl{
		settings:      settings,
		authenticator: NewAuthenticator(secrets),
		resolver:      NewOrderResolver(repo),
		engine:        NewTransitionEngine(repo),
	}
}

// Handle processes a validated callback.
// While disabled it returns domain.OutcomeDisabled without authenticating or touching orders.
// Otherwise it authenticates, resolves the invoice's orders and applies the configured transition.
// The outcome does not reveal how many orders changed.
func (s *CallbackServiceImpl) Handle(ctx context.Context, req domain.Request) (domain.Outcome, error) {
	settings, err := s.settings.Settings(ctx)
	if err != nil {
		return "", fmt.Errorf("service: failed to read settings: %w", err)
	}

	if !settings.Enabled {
		logger.Get().Debug("Callback ignored, feature disabled",
			zap.Int64("invoice_id", int64(req.InvoiceID)),
		)
		return domain.OutcomeDisabled, nil
	}

	if err := s.authenticator.Authenticate(ctx, req.SecretKey); err != nil {
		return "", err
	}

	list, err := s.resolver.Resolve(ctx, req.InvoiceID)
	if err != nil {
		return "", err
	}

	result, err := s.engine.Apply(ctx, list, settings.Transition)

	logger.Get().Info("Callback processed",
		zap.Int64("invoice_id", int64(req.InvoiceID)),
		zap.Int("orders", len(list)),
		zap.Int("applied", result.Applied),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	if err != nil {
		return "", err
	}

	return domain.OutcomeProcessed, nil
}
