package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/dto"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/handler"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- MOCK SERVICE ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, string, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, "", "", args.Error(3)
	}
	return args.Get(0).(*models.User), args.String(1), args.String(2), args.Error(3)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return "", "", nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func (m *MockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) RevokeToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID, name, email string) error {
	args := m.Called(ctx, userID, name, email)
	return args.Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	return args.Error(0)
}

// --- SETUP ---

func setupAuthRouter(t *testing.T, mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handler.NewAuthHandler(mockService, testLogger(t), 900)

	api := r.Group("/api")
	h.RegisterRoutes(api, func(c *gin.Context) { c.Next() })
	return r
}

// --- TESTS ---

func TestAuthHandler_Register(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		user := &models.User{ID: testUserID, Name: "New Author", Email: "new@example.com"}
		mockService.On("Register", mock.Anything, "New Author", "new@example.com", "hunter2hunter2").
			Return(user, "access-token", "refresh-token", nil).Once()

		body, _ := json.Marshal(dto.RegisterRequest{
			Name:     "New Author",
			Email:    "new@example.com",
			Password: "hunter2hunter2",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var response dto.AuthResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "access-token", response.AccessToken)
		assert.Equal(t, "refresh-token", response.RefreshToken)
		assert.Equal(t, testUserID, response.UserID)
		assert.Equal(t, int64(900), response.ExpiresIn)
		mockService.AssertExpectations(t)
	})

	t.Run("ShortPassword", func(t *testing.T) {
		body, _ := json.Marshal(dto.RegisterRequest{
			Name:     "New Author",
			Email:    "new@example.com",
			Password: "short",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("EmailTaken", func(t *testing.T) {
		mockService.On("Register", mock.Anything, "Dupe", "taken@example.com", "hunter2hunter2").
			Return(nil, "", "", service.ErrEmailInUse).Once()

		body, _ := json.Marshal(dto.RegisterRequest{
			Name:     "Dupe",
			Email:    "taken@example.com",
			Password: "hunter2hunter2",
		})
		req, _ := http.NewRequest(http.MethodPost, "/api/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		user := &models.User{ID: testUserID, Name: "Author", Email: "author@example.com"}
		mockService.On("Login", mock.Anything, "author@example.com", "hunter2hunter2").
			Return("access-token", "refresh-token", user, nil).Once()

		body, _ := json.Marshal(dto.LoginRequest{Email: "author@example.com", Password: "hunter2hunter2"})
		req, _ := http.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.AuthResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "access-token", response.AccessToken)
		assert.Equal(t, "author@example.com", response.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockService.On("Login", mock.Anything, "author@example.com", "wrong-password").
			Return("", "", nil, service.ErrInvalidCredentials).Once()

		body, _ := json.Marshal(dto.LoginRequest{Email: "author@example.com", Password: "wrong-password"})
		req, _ := http.NewRequest(http.MethodPost, "/api/login", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_RefreshToken(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(t, mockService)

	t.Run("Success", func(t *testing.T) {
		mockService.On("RefreshAccessToken", mock.Anything, "valid-refresh").
			Return("fresh-access", nil).Once()

		body, _ := json.Marshal(dto.RefreshTokenRequest{RefreshToken: "valid-refresh"})
		req, _ := http.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.RefreshResponse
		json.Unmarshal(w.Body.Bytes(), &response)
		assert.Equal(t, "fresh-access", response.AccessToken)
		assert.Equal(t, "Bearer", response.TokenType)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		mockService.On("RefreshAccessToken", mock.Anything, "stale-refresh").
			Return("", service.ErrExpiredToken).Once()

		body, _ := json.Marshal(dto.RefreshTokenRequest{RefreshToken: "stale-refresh"})
		req, _ := http.NewRequest(http.MethodPost, "/api/auth/refresh", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAuthHandler_RevokeToken(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(t, mockService)

	// revoking an unknown token still reads as success
	mockService.On("RevokeToken", mock.Anything, "whatever").Return(nil).Once()

	body, _ := json.Marshal(dto.RevokeTokenRequest{RefreshToken: "whatever"})
	req, _ := http.NewRequest(http.MethodPost, "/api/auth/revoke", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
