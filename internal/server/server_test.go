package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"warbler/internal/config"
	"warbler/internal/models"
	"warbler/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test_secret_that_is_long_enough_for_hs256"

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         testSecret,
		Env:               "test",
		BcryptCost:        bcrypt.MinCost,
		PasswordMinLength: 6,
	}
}

func newTestApp(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	s, err := NewServerWithDeps(testConfig(), db, nil)
	require.NoError(t, err)
	return s, s.NewApp()
}

type request struct {
	method string
	path   string
	body   any
	token  string
	cookie string
}

func do(t *testing.T, app *fiber.App, r request) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	if r.cookie != "" {
		req.Header.Set("Cookie", r.cookie)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func signup(t *testing.T, app *fiber.App, name string) authResponse {
	t.Helper()
	resp, body := do(t, app, request{method: http.MethodPost, path: "/signup", body: map[string]string{
		"username": name,
		"email":    name + "@test.com",
		"password": "password",
	}})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var out authResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	require.NotZero(t, out.User.ID)
	return out
}

func TestHealthChecks(t *testing.T) {
	_, app := newTestApp(t)

	resp, _ := do(t, app, request{method: http.MethodGet, path: "/health/live"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := do(t, app, request{method: http.MethodGet, path: "/health/ready"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"redis":"disabled"`)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewValidationError("x"), http.StatusBadRequest},
		{models.NewIntegrityError("x", nil), http.StatusConflict},
		{models.NewNotFoundError("User", 1), http.StatusNotFound},
		{models.NewUnauthorizedError("x"), http.StatusForbidden},
		{models.NewInternalError(nil), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", models.NewNotFoundError("Message", 2)), http.StatusNotFound},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetWithPassword(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Search(ctx context.Context, q string, limit, offset int) ([]models.User, error) {
	args := m.Called(ctx, q, limit, offset)
	return args.Get(0).([]models.User), args.Error(1)
}

func TestAuthRequired(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(1)).Return(&models.User{ID: 1}, nil)
	mockRepo.On("GetByID", mock.Anything, uint(2)).Return(nil, models.NewNotFoundError("User", 2))

	cfg := testConfig()
	s := &Server{config: cfg, userRepo: mockRepo, sessions: newSessionStore(cfg)}
	app := fiber.New()
	app.Get("/private", s.AuthRequired(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": currentUserID(c)})
	})

	valid, err := s.generateToken(&models.User{ID: 1})
	require.NoError(t, err)
	deleted, err := s.generateToken(&models.User{ID: 2})
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "1",
		Issuer:   "someone-else",
		Audience: jwt.ClaimStrings{tokenAudience},
	})
	foreignToken, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	wrongKey := &Server{config: &config.Config{JWTSecret: "a_completely_different_secret_value"}}
	forged, err := wrongKey.generateToken(&models.User{ID: 1})
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"Valid token", valid, http.StatusOK},
		{"No credentials", "", http.StatusUnauthorized},
		{"Garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"Wrong issuer", foreignToken, http.StatusUnauthorized},
		{"Wrong signing key", forged, http.StatusUnauthorized},
		{"User no longer exists", deleted, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, request{method: http.MethodGet, path: "/private", token: tt.token})
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, string(body), unauthorizedMessage)
			}
		})
	}
}
