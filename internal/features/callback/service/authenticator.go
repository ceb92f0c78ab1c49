package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"superfaktura-callback/internal/features/callback/domain"
	"superfaktura-callback/internal/features/callback/ports"
)

// Authenticator checks a caller-supplied secret against the stored one.
type Authenticator struct {
	secrets ports.SecretStore
}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator(secrets ports.SecretStore) *Authenticator {
	return &Authenticator{
		secrets: secrets,
	}
}

// Authenticate returns nil only when candidate equals the stored secret byte for byte.
// A missing secret rejects every candidate.
func (a *Authenticator) Authenticate(ctx context.Context, candidate string) error {
	secret, err := a.secrets.GetSecret(ctx)
	if err != nil {
		return fmt.Errorf("service: failed to read secret: %w", err)
	}

	if secret == "" {
		return fmt.Errorf("%w: %w", domain.ErrInvalidSecretKey, domain.ErrSecretNotConfigured)
	}

	if subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) != 1 {
		return domain.ErrInvalidSecretKey
	}

	return nil
}
