package ports

import (
	"context"

	"superfaktura-callback/internal/features/callback/domain"
)

// CallbackService defines the primary port for invoicing callbacks.
type CallbackService interface {
	Handle(ctx context.Context, req domain.Request) (domain.Outcome, error)
}

// SecretStore holds the installation's shared callback secret.
type SecretStore interface {
	// GetSecret returns the stored secret, or "" when none is stored.
	GetSecret(ctx context.Context) (string, error)
	// SetSecretIfAbsent atomically stores secret unless one exists and reports whether it did.
	SetSecretIfAbsent(ctx context.Context, secret string) (bool, error)
}

// SettingsProvider returns the current callback settings.
type SettingsProvider interface {
	Settings(ctx context.Context) (domain.Settings, error)
}

// SecretWriter replaces the stored secret.
type SecretWriter interface {
	SetSecret(ctx context.Context, secret string) error
}

// SettingsStore reads and persists the callback settings.
type SettingsStore interface {
	SettingsProvider
	SetEnabled(ctx context.Context, enabled bool) error
	SetTransition(ctx context.Context, t domain.Transition) error
}
