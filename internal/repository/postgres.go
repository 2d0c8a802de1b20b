package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository   = (*PostgresUserRepo)(nil)
	_ LookupRepository = (*PostgresLookupRepo)(nil)
)

// DB is the subset of pgxpool.Pool the repositories need. pgxmock pools
// satisfy it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, full_name, username, dob, gender_id, address, email, phone, alternate_phone,
password_hash, is_email_verified, is_phone_verified, role_id, department_id, status_id, profile_image,
is_active, account_locked, failed_login_attempts, last_login, deleted_at, created_at, updated_at`

// PostgresUserRepo implements UserRepository on pgx.
type PostgresUserRepo struct {
	db DB
}

func NewPostgresUserRepo(db DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const findActiveByEmailSQL = `SELECT ` + userColumns + `
FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL`

func (r *PostgresUserRepo) FindActiveByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, findActiveByEmailSQL, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

const getByIDSQL = `SELECT ` + userColumns + `
FROM users WHERE id = $1 AND deleted_at IS NULL`

func (r *PostgresUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	row := r.db.QueryRow(ctx, getByIDSQL, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return user, nil
}

// The partial unique index on lower(email) makes concurrent registrations
// race-safe; the pre-check in the service is advisory only.
const insertUserSQL = `INSERT INTO users (full_name, username, dob, gender_id, address, email, phone, alternate_phone,
password_hash, is_email_verified, is_phone_verified, role_id, department_id, status_id, profile_image)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
RETURNING ` + userColumns

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	row := r.db.QueryRow(ctx, insertUserSQL,
		user.FullName,
		user.Username,
		user.DOB,
		user.GenderID,
		user.Address,
		user.Email,
		user.Phone,
		user.AlternatePhone,
		user.PasswordHash,
		user.EmailVerified,
		user.PhoneVerified,
		user.RoleID,
		user.DepartmentID,
		user.StatusID,
		user.ProfileImage,
	)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.User{}, domain.ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

const listActiveSQL = `SELECT u.id, u.full_name, u.username, u.dob, u.gender_id, u.address, u.email, u.phone,
u.alternate_phone, u.is_email_verified, u.is_phone_verified, u.role_id, u.department_id, u.status_id,
u.profile_image, u.is_active, u.account_locked, u.created_at,
COALESCE(r.name, ''), COALESCE(d.name, ''), COALESCE(s.name, '')
FROM users u
LEFT JOIN roles r ON u.role_id = r.id
LEFT JOIN departments d ON u.department_id = d.id
LEFT JOIN status s ON u.status_id = s.id
WHERE u.is_active = true AND u.deleted_at IS NULL
ORDER BY u.created_at DESC`

func (r *PostgresUserRepo) ListActive(ctx context.Context) ([]domain.UserListing, error) {
	rows, err := r.db.Query(ctx, listActiveSQL)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var listings []domain.UserListing
	for rows.Next() {
		var l domain.UserListing
		if err := rows.Scan(
			&l.ID, &l.FullName, &l.Username, &l.DOB, &l.GenderID, &l.Address, &l.Email, &l.Phone,
			&l.AlternatePhone, &l.EmailVerified, &l.PhoneVerified, &l.RoleID, &l.DepartmentID, &l.StatusID,
			&l.ProfileImage, &l.Active, &l.AccountLocked, &l.CreatedAt,
			&l.RoleName, &l.DepartmentName, &l.StatusName,
		); err != nil {
			return nil, fmt.Errorf("scan user listing: %w", err)
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return listings, nil
}

const incrementAttemptsSQL = `UPDATE users
SET failed_login_attempts = failed_login_attempts + 1, updated_at = now()
WHERE id = $1`

func (r *PostgresUserRepo) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, incrementAttemptsSQL, id); err != nil {
		return fmt.Errorf("increment failed attempts: %w", err)
	}
	return nil
}

const resetAttemptsSQL = `UPDATE users
SET failed_login_attempts = 0, last_login = now(), updated_at = now()
WHERE id = $1`

func (r *PostgresUserRepo) ResetAttemptsAndStampLogin(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.Exec(ctx, resetAttemptsSQL, id); err != nil {
		return fmt.Errorf("reset failed attempts: %w", err)
	}
	return nil
}

const softDeleteSQL = `UPDATE users
SET is_active = false, deleted_at = now(), updated_at = now()
WHERE id = $1 AND is_active = true AND deleted_at IS NULL
RETURNING id`

func (r *PostgresUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var deleted uuid.UUID
	if err := r.db.QueryRow(ctx, softDeleteSQL, id).Scan(&deleted); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("soft delete user: %w", err)
	}
	return deleted, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.FullName, &u.Username, &u.DOB, &u.GenderID, &u.Address, &u.Email, &u.Phone,
		&u.AlternatePhone, &u.PasswordHash, &u.EmailVerified, &u.PhoneVerified, &u.RoleID,
		&u.DepartmentID, &u.StatusID, &u.ProfileImage, &u.Active, &u.AccountLocked,
		&u.FailedAttempts, &u.LastLogin, &u.DeletedAt, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// PostgresLookupRepo implements LookupRepository.
type PostgresLookupRepo struct {
	db DB
}

func NewPostgresLookupRepo(db DB) *PostgresLookupRepo {
	return &PostgresLookupRepo{db: db}
}

func (r *PostgresLookupRepo) ListRoles(ctx context.Context) ([]domain.Lookup, error) {
	return r.list(ctx, `SELECT id, name, is_active FROM roles ORDER BY name`)
}

func (r *PostgresLookupRepo) ListDepartments(ctx context.Context) ([]domain.Lookup, error) {
	return r.list(ctx, `SELECT id, name, is_active FROM departments ORDER BY name`)
}

func (r *PostgresLookupRepo) ListStatuses(ctx context.Context) ([]domain.Lookup, error) {
	return r.list(ctx, `SELECT id, name, is_active FROM status ORDER BY name`)
}

func (r *PostgresLookupRepo) list(ctx context.Context, sql string) ([]domain.Lookup, error) {
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	defer rows.Close()

	var lookups []domain.Lookup
	for rows.Next() {
		var l domain.Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.Active); err != nil {
			return nil, fmt.Errorf("scan lookup: %w", err)
		}
		lookups = append(lookups, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lookups: %w", err)
	}
	return lookups, nil
}
