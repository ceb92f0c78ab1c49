package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"superfaktura-callback/internal/core/logger"
	"superfaktura-callback/internal/features/callback/domain"
	"superfaktura-callback/internal/features/callback/ports"
)

// SecretService generates the shared callback secret once and hands it out afterwards.
type SecretService struct {
	store ports.SecretStore
	// random is the entropy source; crypto/rand unless replaced in tests.
	random io.Reader
	mu     sync.Mutex
}

// NewSecretService creates a new SecretService.
func NewSecretService(store ports.SecretStore) *SecretService {
	return &SecretService{
		store:  store,
		random: rand.Reader,
	}
}

// Get returns the stored secret, or "" if none has been generated.
func (s *SecretService) Get(ctx context.Context) (string, error) {
	secret, err := s.store.GetSecret(ctx)
	if err != nil {
		return "", fmt.Errorf("service: failed to read secret: %w", err)
	}
	return secret, nil
}

// Ensure returns the stored secret, generating and storing one first if none exists.
// An existing secret is never overwritten; when another process stores one first, that one wins.
func (s *SecretService) Ensure(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	secret, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if secret != "" {
		return secret, nil
	}

	generated, err := GenerateSecret(s.random)
	if err != nil {
		return "", err
	}

	stored, err := s.store.SetSecretIfAbsent(ctx, generated)
	if err != nil {
		return "", fmt.Errorf("service: failed to store secret: %w", err)
	}
	if stored {
		logger.Get().Info("Generated callback secret key")
		return generated, nil
	}

	// Another writer stored a secret first.
	winner, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	if winner == "" {
		return "", fmt.Errorf("service: secret removed after concurrent write: %w", domain.ErrSecretNotConfigured)
	}
	return winner, nil
}

// GenerateSecret draws domain.SecretLength characters uniformly from domain.SecretAlphabet.
func GenerateSecret(r io.Reader) (string, error) {
	const alphabetLen = len(domain.SecretAlphabet)
	// Largest multiple of the alphabet size that fits in a byte; bytes above it are rejected
	// so every character is equally likely.
	const limit = 256 - 256%alphabetLen

	out := make([]byte, 0, domain.SecretLength)
	buf := make([]byte, domain.SecretLength)
	for len(out) < domain.SecretLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("service: failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, domain.SecretAlphabet[int(b)%alphabetLen])
			if len(out) == domain.SecretLength {
				break
			}
		}
	}
	return string(out), nil
}
