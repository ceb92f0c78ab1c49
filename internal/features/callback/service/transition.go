package service

import (
	"context"
	"fmt"

	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/core/metrics"
	"superfaktura-callback/internal/features/callback/domain"
	orders "superfaktura-callback/internal/features/orders/domain"
	orderports "superfaktura-callback/internal/features/orders/ports"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// TransitionEngine moves orders from one status to another.
type TransitionEngine struct {
	repo orderports.OrderRepository
}

// NewTransitionEngine creates a new TransitionEngine.
func NewTransitionEngine(repo orderports.OrderRepository) *TransitionEngine {
	return &TransitionEngine{
		repo: repo,
	}
}

// Apply saves t.To on every order whose status is exactly t.From; all other orders are left alone.
// Orders are saved independently: a failure is recorded and the remaining orders are still attempted.
// The returned error wraps domain.ErrOrderUpdate and every individual failure.
func (e *TransitionEngine) Apply(ctx context.Context, list []orders.Order, t domain.Transition) (domain.TransitionResult, error) {
	var result domain.TransitionResult

	if !t.IsConfigured() {
		result.Skipped = len(list)
		metrics.Transitions.WithLabelValues("skipped").Add(float64(len(list)))
		return result, nil
	}

	var errs error
	for _, order := range list {
		if order.Status != t.From {
			result.Skipped++
			metrics.Transitions.WithLabelValues("skipped").Inc()
			continue
		}

		order.Status = t.To
		if err := e.repo.Save(ctx, order, transitionNote(t)); err != nil {
			result.Failed++
			metrics.Transitions.WithLabelValues("failed").Inc()
			logger.Get().Error("Failed to save order transition",
				zap.Int64("order_id", order.ID),
				zap.String("status_to", string(t.To)),
				zap.Error(err),
			)
			errs = multierr.Append(errs, fmt.Errorf("order %d: %w", order.ID, err))
			continue
		}

		result.Applied++
		metrics.Transitions.WithLabelValues("applied").Inc()
		logger.Get().Info("Order status changed",
			zap.Int64("order_id", order.ID),
			zap.String("status_from", string(t.From)),
			zap.String("status_to", string(t.To)),
		)
	}

	if errs != nil {
		return result, fmt.Errorf("%w: %w", domain.ErrOrderUpdate, errs)
	}
	return result, nil
}

func transitionNote(t domain.Transition) string {
	return fmt.Sprintf("%sOrder status changed from %s to %s.", domain.NotePrefix, t.From, t.To)
}
