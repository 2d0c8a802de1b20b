package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/repository"
)

var userRowColumns = []string{
	"id", "full_name", "username", "dob", "gender_id", "address", "email", "phone", "alternate_phone",
	"password_hash", "is_email_verified", "is_phone_verified", "role_id", "department_id", "status_id",
	"profile_image", "is_active", "account_locked", "failed_login_attempts", "last_login", "deleted_at",
	"created_at", "updated_at",
}

func userRow(mock pgxmock.PgxPoolIface, id uuid.UUID, email string) *pgxmock.Rows {
	now := time.Now()
	return mock.NewRows(userRowColumns).AddRow(
		id, "Asha Verma", "asha", "1990-01-01", (*int64)(nil), "", email, "", "",
		"$2a$10$hash", false, false, (*int64)(nil), (*int64)(nil), (*int64)(nil),
		"", true, false, 0, (*time.Time)(nil), (*time.Time)(nil),
		now, now,
	)
}

func TestFindActiveByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)
	id := uuid.New()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\) = lower\(\$1\) AND deleted_at IS NULL`).
		WithArgs("asha@example.com").
		WillReturnRows(userRow(mock, id, "asha@example.com"))

	user, err := repo.FindActiveByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	require.Equal(t, id, user.ID)
	require.Equal(t, "asha@example.com", user.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByEmailNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\)`).
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.FindActiveByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUniqueViolation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Asha", "", "", (*int64)(nil), "", "asha@example.com", "", "",
			"$2a$10$hash", false, false, (*int64)(nil), (*int64)(nil), (*int64)(nil), "").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err = repo.Create(context.Background(), domain.User{
		FullName:     "Asha",
		Email:        "asha@example.com",
		PasswordHash: "$2a$10$hash",
	})
	require.ErrorIs(t, err, domain.ErrEmailTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementFailedAttempts(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)
	id := uuid.New()

	mock.ExpectExec(`UPDATE users\s+SET failed_login_attempts = failed_login_attempts \+ 1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.IncrementFailedAttempts(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResetAttemptsAndStampLogin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)
	id := uuid.New()

	mock.ExpectExec(`UPDATE users\s+SET failed_login_attempts = 0, last_login = now\(\)`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.ResetAttemptsAndStampLogin(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users\s+SET is_active = false, deleted_at = now\(\)`).
		WithArgs(id).
		WillReturnRows(mock.NewRows([]string{"id"}).AddRow(id))

	deleted, err := repo.SoftDelete(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, id, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDeleteAlreadyGone(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresUserRepo(mock)
	id := uuid.New()

	mock.ExpectQuery(`UPDATE users\s+SET is_active = false`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err = repo.SoftDelete(context.Background(), id)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRoles(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewPostgresLookupRepo(mock)

	mock.ExpectQuery(`SELECT id, name, is_active FROM roles ORDER BY name`).
		WillReturnRows(mock.NewRows([]string{"id", "name", "is_active"}).
			AddRow(int64(1), "Admin", true).
			AddRow(int64(2), "Staff", true))

	roles, err := repo.ListRoles(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Lookup{
		{ID: 1, Name: "Admin", Active: true},
		{ID: 2, Name: "Staff", Active: true},
	}, roles)
	require.NoError(t, mock.ExpectationsWereMet())
}
