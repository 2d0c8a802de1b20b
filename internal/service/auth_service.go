package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/config"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/password"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/repository"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/token"
)

// AuthService orchestrates registration, login and user administration.
type AuthService struct {
	users   repository.UserRepository
	lookups repository.LookupRepository
	hasher  password.Hasher
	tokens  *token.Issuer
	guard   *Guard
	cfg     config.Config
	logger  *zap.Logger
	tracer  trace.Tracer
}

// NewAuthService wires the auth orchestration layer.
func NewAuthService(
	users repository.UserRepository,
	lookups repository.LookupRepository,
	hasher password.Hasher,
	tokens *token.Issuer,
	guard *Guard,
	cfg config.Config,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		lookups: lookups,
		hasher:  hasher,
		tokens:  tokens,
		guard:   guard,
		cfg:     cfg,
		logger:  logger,
		tracer:  otel.Tracer("service"),
	}
}

// RegisterInput carries the registration request fields. Only full name,
// email and password are required.
type RegisterInput struct {
	FullName       string
	Email          string
	Password       string
	DOB            string
	GenderID       *int64
	Address        string
	Phone          string
	AlternatePhone string
	RoleID         *int64
	DepartmentID   *int64
	StatusID       *int64
	ProfileImage   string
}

// UserProjection is the sanitized user view returned to clients. It never
// carries the password hash.
type UserProjection struct {
	ID             uuid.UUID  `json:"id"`
	FullName       string     `json:"full_name"`
	Username       string     `json:"username"`
	DOB            string     `json:"dob,omitempty"`
	GenderID       *int64     `json:"gender_id"`
	Address        string     `json:"address,omitempty"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	AlternatePhone string     `json:"alternate_phone,omitempty"`
	EmailVerified  bool       `json:"is_email_verified"`
	PhoneVerified  bool       `json:"is_phone_verified"`
	RoleID         *int64     `json:"role_id"`
	RoleName       string     `json:"role_name,omitempty"`
	DepartmentID   *int64     `json:"department_id"`
	DepartmentName string     `json:"department_name,omitempty"`
	StatusID       *int64     `json:"status_id"`
	StatusName     string     `json:"status_name,omitempty"`
	ProfileImage   string     `json:"profile_image,omitempty"`
	Active         bool       `json:"is_active"`
	AccountLocked  bool       `json:"account_locked"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AuthResult is returned by Register.
type AuthResult struct {
	User  UserProjection
	Token string
}

// LoginResult adds the client-facing session expiry. The session window is
// independent of the bearer token TTL and is not enforced server-side.
type LoginResult struct {
	User      UserProjection
	Token     string
	ExpiresAt time.Time
}

// Register validates required fields, hashes the password and creates the
// credential record. Duplicate active emails surface as domain.ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer span.End()

	var missing []string
	if strings.TrimSpace(in.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return AuthResult{}, domain.NewValidationError(missing...)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	created, err := s.users.Create(ctx, domain.User{
		FullName:       strings.TrimSpace(in.FullName),
		DOB:            in.DOB,
		GenderID:       in.GenderID,
		Address:        in.Address,
		Email:          normalizeEmail(in.Email),
		Phone:          in.Phone,
		AlternatePhone: in.AlternatePhone,
		PasswordHash:   hash,
		RoleID:         in.RoleID,
		DepartmentID:   in.DepartmentID,
		StatusID:       in.StatusID,
		ProfileImage:   in.ProfileImage,
	})
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, err
	}

	signed, err := s.tokens.Issue(created.ID.String())
	if err != nil {
		span.RecordError(err)
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.audit("auth.register.success", zap.String("user_id", created.ID.String()))
	return AuthResult{User: project(created), Token: signed}, nil
}

// Login authenticates by email and password. Unknown email and wrong password
// are indistinguishable to the caller so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (LoginResult, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer span.End()

	normalized := normalizeEmail(email)
	if normalized == "" || plaintext == "" {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindActiveByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		span.RecordError(err)
		return LoginResult{}, err
	}

	if err := s.guard.Authorize(user); err != nil {
		s.audit("auth.login.locked", zap.String("user_id", user.ID.String()))
		return LoginResult{}, err
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		if err := s.guard.RecordFailure(ctx, user.ID); err != nil {
			span.RecordError(err)
			return LoginResult{}, err
		}
		s.audit("auth.login.failed", zap.String("user_id", user.ID.String()))
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	if err := s.guard.RecordSuccess(ctx, user.ID); err != nil {
		span.RecordError(err)
		return LoginResult{}, err
	}

	signed, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		span.RecordError(err)
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	s.audit("auth.login.success", zap.String("user_id", user.ID.String()))
	return LoginResult{
		User:      project(user),
		Token:     signed,
		ExpiresAt: time.Now().Add(s.cfg.SessionWindow),
	}, nil
}

// ListActive returns projections of all active users joined with their
// reference display names, newest first.
func (s *AuthService) ListActive(ctx context.Context) ([]UserProjection, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.ListActive")
	defer span.End()

	listings, err := s.users.ListActive(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	projections := make([]UserProjection, 0, len(listings))
	for _, l := range listings {
		p := project(l.User)
		p.RoleName = l.RoleName
		p.DepartmentName = l.DepartmentName
		p.StatusName = l.StatusName
		projections = append(projections, p)
	}
	return projections, nil
}

// GetByID returns a single user projection or domain.ErrNotFound.
func (s *AuthService) GetByID(ctx context.Context, id uuid.UUID) (UserProjection, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.GetByID")
	defer span.End()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
		}
		return UserProjection{}, err
	}
	return project(user), nil
}

// SoftDelete marks the user inactive and stamps the deletion time. Deleting
// an already-inactive user yields domain.ErrNotFound.
func (s *AuthService) SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.SoftDelete")
	defer span.End()

	deleted, err := s.users.SoftDelete(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			span.RecordError(err)
		}
		return uuid.Nil, err
	}

	s.audit("auth.user.deleted", zap.String("user_id", deleted.String()))
	return deleted, nil
}

// Dropdowns loads the roles, departments and status reference lists.
func (s *AuthService) Dropdowns(ctx context.Context) (domain.Dropdowns, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Dropdowns")
	defer span.End()

	roles, err := s.lookups.ListRoles(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Dropdowns{}, err
	}
	departments, err := s.lookups.ListDepartments(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Dropdowns{}, err
	}
	statuses, err := s.lookups.ListStatuses(ctx)
	if err != nil {
		span.RecordError(err)
		return domain.Dropdowns{}, err
	}

	return domain.Dropdowns{Roles: roles, Departments: departments, Statuses: statuses}, nil
}

func (s *AuthService) audit(event string, fields ...zap.Field) {
	if s.logger == nil {
		return
	}
	s.logger.Info(event, fields...)
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func project(user domain.User) UserProjection {
	return UserProjection{
		ID:             user.ID,
		FullName:       user.FullName,
		Username:       user.Username,
		DOB:            user.DOB,
		GenderID:       user.GenderID,
		Address:        user.Address,
		Email:          user.Email,
		Phone:          user.Phone,
		AlternatePhone: user.AlternatePhone,
		EmailVerified:  user.EmailVerified,
		PhoneVerified:  user.PhoneVerified,
		RoleID:         user.RoleID,
		DepartmentID:   user.DepartmentID,
		StatusID:       user.StatusID,
		ProfileImage:   user.ProfileImage,
		Active:         user.Active,
		AccountLocked:  user.AccountLocked,
		LastLogin:      user.LastLogin,
		CreatedAt:      user.CreatedAt,
	}
}
