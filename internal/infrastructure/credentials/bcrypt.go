// Package credentials stores and checks password digests with bcrypt.
package credentials

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/epicevents/crm/internal/core/domain"
	"github.com/epicevents/crm/internal/core/ports"
)

// BcryptStore implements ports.CredentialStore over the digests kept on each
// actor record.
type BcryptStore struct {
	actors ports.ActorRepository
	cost   int
}

var _ ports.CredentialStore = (*BcryptStore)(nil)

// NewBcryptStore returns a store hashing at cost. Costs outside bcrypt's range
// fall back to bcrypt.DefaultCost.
func NewBcryptStore(actors ports.ActorRepository, cost int) *BcryptStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptStore{actors: actors, cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (s *BcryptStore) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifySecret reports whether plaintext matches the actor's digest. An
// unknown actor or a missing digest is a mismatch, not an error, and costs
// the same bcrypt work as a real comparison.
func (s *BcryptStore) VerifySecret(ctx context.Context, actorID, plaintext string) (bool, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.burn(plaintext)
			return false, nil
		}
		return false, fmt.Errorf("verify secret: %w", err)
	}
	if actor.PasswordHash == "" {
		s.burn(plaintext)
		return false, nil
	}
	err = bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("verify secret: %w", err)
	}
}

// burn spends one key expansion at the store's cost. Hashing and comparing run
// the same expansion, so a miss takes as long as a wrong password.
func (s *BcryptStore) burn(plaintext string) {
	_, _ = bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
}
