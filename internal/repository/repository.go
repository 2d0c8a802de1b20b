package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
)

// UserRepository persists credential records. All mutations are atomic
// per-record so concurrent login attempts never lose updates.
type UserRepository interface {
	FindActiveByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
	ListActive(ctx context.Context) ([]domain.UserListing, error)
	IncrementFailedAttempts(ctx context.Context, id uuid.UUID) error
	ResetAttemptsAndStampLogin(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// LookupRepository serves the reference lists behind form dropdowns.
type LookupRepository interface {
	ListRoles(ctx context.Context) ([]domain.Lookup, error)
	ListDepartments(ctx context.Context) ([]domain.Lookup, error)
	ListStatuses(ctx context.Context) ([]domain.Lookup, error)
}
