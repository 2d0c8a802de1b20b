package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/config"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/domain"
	httptransport "github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/handler"
	httpmiddleware "github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/http/middleware"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/password"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/service"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/token"
	"github.com/Pingaksh2K24/siksha-sanchalanam-backend/internal/upload"
)

type testEnv struct {
	router *gin.Engine
	users  *memoryUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		SessionWindow:      2 * time.Hour,
		UploadDir:          t.TempDir(),
		UploadMaxBytes:     1 << 20,
		ServiceName:        "test",
		CORSAllowedOrigins: []string{"*"},
	}

	users := newMemoryUserRepo()
	issuer := token.NewIssuer("test-secret", time.Hour)
	svc := service.NewAuthService(
		users,
		&memoryLookupRepo{},
		password.NewHasher(bcrypt.MinCost),
		issuer,
		service.NewGuard(users),
		cfg,
		zap.NewNop(),
	)

	router := httptransport.NewRouter(
		cfg,
		handler.NewAuthHandler(svc),
		handler.NewUserHandler(svc),
		handler.NewUploadHandler(upload.NewStore(cfg.UploadDir, cfg.UploadMaxBytes)),
		handler.NewRetailHandler(nil),
		handler.NewHealthHandler(nil, nil),
		httpmiddleware.NewAuth(issuer),
		zap.NewNop(),
	)

	return &testEnv{router: router, users: users}
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) register(t *testing.T, email string) map[string]any {
	t.Helper()
	rec := e.doJSON(t, http.MethodPost, "/api/auth/register", gin.H{
		"full_name": "Asha Verma",
		"email":     email,
		"password":  "password",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterLoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	registered := env.register(t, "asha@example.com")
	require.NotEmpty(t, registered["token"])
	require.NotContains(t, strings.ToLower(fmt.Sprint(registered)), "password_hash")

	before := time.Now()
	rec := env.doJSON(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "password",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login["token"])

	expiresAt, err := time.Parse(time.RFC3339, login["expires_at"].(string))
	require.NoError(t, err)
	require.InDelta(t, (2 * time.Hour).Seconds(), expiresAt.Sub(before).Seconds(), 10)

	rec = env.doJSON(t, http.MethodGet, "/api/auth/me", nil, map[string]string{
		"Authorization": "Bearer " + login["token"].(string),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	require.Equal(t, registered["id"], me["id"])

	rec = env.doJSON(t, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginFailureResponses(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "asha@example.com")
	id := uuid.MustParse(registered["id"].(string))

	for i := 1; i <= 3; i++ {
		rec := env.doJSON(t, http.MethodPost, "/api/auth/login", gin.H{
			"email":    "asha@example.com",
			"password": "wrong",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_credentials")
		require.Equal(t, i, env.users.get(id).FailedAttempts)
	}

	// unknown email yields the very same response body
	rec := env.doJSON(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "wrong",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_credentials")
}

func TestLoginLockedAccountResponse(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "asha@example.com")
	env.users.setLocked(uuid.MustParse(registered["id"].(string)), true)

	rec := env.doJSON(t, http.MethodPost, "/api/auth/login", gin.H{
		"email":    "asha@example.com",
		"password": "password",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "account_locked")
}

func TestRegisterValidationAndConflict(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/auth/register", gin.H{"email": "a@b.c"}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "full_name")
	require.Contains(t, rec.Body.String(), "password")

	env.register(t, "asha@example.com")
	rec = env.doJSON(t, http.MethodPost, "/api/auth/register", gin.H{
		"full_name": "Other",
		"email":     "asha@example.com",
		"password":  "pw",
	}, nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, rec.Body.String(), "email_taken")
}

func TestUserLifecycle(t *testing.T) {
	env := newTestEnv(t)
	registered := env.register(t, "asha@example.com")
	id := registered["id"].(string)

	rec := env.doJSON(t, http.MethodGet, "/api/auth/users", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), id)

	rec = env.doJSON(t, http.MethodDelete, "/api/auth/users/"+id, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/api/auth/users/"+id, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/api/auth/users/"+id, nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.doJSON(t, http.MethodDelete, "/api/auth/users/not-a-uuid", nil, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDropdowns(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/api/auth/dropdowns", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var lists map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lists))
	require.Contains(t, lists, "roles")
	require.Contains(t, lists, "departments")
	require.Contains(t, lists, "status")
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t)

	rec := uploadFile(t, env, "avatar.png", []byte("png-bytes"), "profiles")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Contains(t, rec.Body.String(), "-avatar.png")

	rec = uploadFile(t, env, "run.exe", []byte("mz"), "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "upload_rejected")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/upload", nil)
	res := httptest.NewRecorder()
	env.router.ServeHTTP(res, req)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func uploadFile(t *testing.T, env *testEnv, filename string, content []byte, folder string) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	if folder != "" {
		require.NoError(t, writer.WriteField("folder", folder))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memoryUserRepo) get(id uuid.UUID) domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.users[id]
}

func (m *memoryUserRepo) setLocked(id uuid.UUID, locked bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[id].AccountLocked = locked
}

func (m *memoryUserRepo) FindActiveByEmail(ctx context.Context, email string) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, email) {
			return *u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.DeletedAt != nil {
		return domain.User{}, domain.ErrNotFound
	}
	return *u, nil
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.DeletedAt == nil && strings.EqualFold(u.Email, user.Email) {
			return domain.User{}, domain.ErrEmailTaken
		}
	}
	user.ID = uuid.New()
	user.Active = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = &user
	return user, nil
}

func (m *memoryUserRepo) ListActive(ctx context.Context) ([]domain.UserListing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var listings []domain.UserListing
	for _, u := range m.users {
		if u.Active && u.DeletedAt == nil {
			listings = append(listings, domain.UserListing{User: *u})
		}
	}
	return listings, nil
}

func (m *memoryUserRepo) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.FailedAttempts++
	}
	return nil
}

func (m *memoryUserRepo) ResetAttemptsAndStampLogin(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.FailedAttempts = 0
		now := time.Now()
		u.LastLogin = &now
	}
	return nil
}

func (m *memoryUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || !u.Active || u.DeletedAt != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	now := time.Now()
	u.Active = false
	u.DeletedAt = &now
	return id, nil
}

type memoryLookupRepo struct{}

func (m *memoryLookupRepo) ListRoles(ctx context.Context) ([]domain.Lookup, error) {
	return []domain.Lookup{{ID: 1, Name: "Admin", Active: true}}, nil
}

func (m *memoryLookupRepo) ListDepartments(ctx context.Context) ([]domain.Lookup, error) {
	return []domain.Lookup{{ID: 1, Name: "Operations", Active: true}}, nil
}

func (m *memoryLookupRepo) ListStatuses(ctx context.Context) ([]domain.Lookup, error) {
	return []domain.Lookup{{ID: 1, Name: "Active", Active: true}}, nil
}
