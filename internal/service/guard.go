package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/repository"
)

// Guard enforces the account lockout policy and maintains the failed-attempt
// counter. The lock flag is set by administrative action elsewhere; no attempt
// count flips it automatically. While locked, authentication is refused
// regardless of credential correctness, and unlock only happens externally.
type Guard struct {
	users repository.UserRepository
}

// NewGuard creates a Guard over the credential store.
func NewGuard(users repository.UserRepository) *Guard {
	return &Guard{users: users}
}

// Authorize rejects locked accounts before any credential check runs, so a
// locked login never touches the counter.
func (g *Guard) Authorize(user domain.User) error {
	if user.AccountLocked {
		return domain.ErrAccountLocked
	}
	return nil
}

// RecordFailure counts one failed attempt. The increment is a single atomic
// store operation; two simultaneous failures are both counted.
func (g *Guard) RecordFailure(ctx context.Context, id uuid.UUID) error {
	return g.users.IncrementFailedAttempts(ctx, id)
}

// RecordSuccess resets the counter to zero and stamps the login time.
func (g *Guard) RecordSuccess(ctx context.Context, id uuid.UUID) error {
	return g.users.ResetAttemptsAndStampLogin(ctx, id)
}
