package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stock_alert_backend/internal/feature/auth/domain/entity"
	"stock_alert_backend/internal/feature/auth/usecase"
)

// mockAuthUsecase is a mock implementation of the AuthUsecase interface.
type mockAuthUsecase struct {
	SignupFunc  func(ctx context.Context, username, email, password string) (*entity.User, error)
	LoginFunc   func(ctx context.Context, username, password string) (string, error)
	SignupCalls int
}

func (m *mockAuthUsecase) Signup(ctx context.Context, username, email, password string) (*entity.User, error) {
	m.SignupCalls++
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, username, email, password)
	}
	return &entity.User{ID: 1, Username: username}, nil
}

func (m *mockAuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username, password)
	}
	return "", usecase.ErrInvalidCredentials
}

func doJSON(h gin.HandlerFunc, body any) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", h)
	b, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Signup(t *testing.T) {
	tests := []struct {
		name           string
		body           gin.H
		signupErr      error
		expectedStatus int
		expectCall     bool
	}{
		{name: "success", body: gin.H{"username": "alice", "email": "alice@example.com", "password": "password123"},
			expectedStatus: http.StatusCreated, expectCall: true},
		{name: "invalid email", body: gin.H{"username": "alice", "email": "nope", "password": "password123"},
			expectedStatus: http.StatusBadRequest},
		{name: "short password", body: gin.H{"username": "alice", "email": "alice@example.com", "password": "short"},
			expectedStatus: http.StatusBadRequest},
		{name: "missing username", body: gin.H{"email": "alice@example.com", "password": "password123"},
			expectedStatus: http.StatusBadRequest},
		{name: "duplicate", body: gin.H{"username": "alice", "email": "alice@example.com", "password": "password123"},
			signupErr: usecase.ErrUserAlreadyExists, expectedStatus: http.StatusConflict, expectCall: true},
		{name: "storage failure", body: gin.H{"username": "alice", "email": "alice@example.com", "password": "password123"},
			signupErr: errors.New("db down"), expectedStatus: http.StatusInternalServerError, expectCall: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthUsecase{SignupFunc: func(ctx context.Context, username, email, password string) (*entity.User, error) {
				if tt.signupErr != nil {
					return nil, tt.signupErr
				}
				return &entity.User{ID: 5, Username: username}, nil
			}}

			w := doJSON(NewAuthHandler(mock).Signup, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectCall, mock.SignupCalls == 1)
			if tt.expectedStatus == http.StatusCreated {
				assert.JSONEq(t, `{"id":5,"username":"alice"}`, w.Body.String())
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           gin.H
		loginFunc      func(ctx context.Context, username, password string) (string, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: gin.H{"username": "alice", "password": "password123"},
			loginFunc: func(ctx context.Context, username, password string) (string, error) {
				return "jwt-token", nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"token":"jwt-token"}`,
		},
		{
			name:           "invalid credentials",
			body:           gin.H{"username": "alice", "password": "wrong"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"error":"invalid username or password"}`,
		},
		{
			name:           "missing password",
			body:           gin.H{"username": "alice"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "token failure",
			body: gin.H{"username": "alice", "password": "password123"},
			loginFunc: func(ctx context.Context, username, password string) (string, error) {
				return "", errors.New("sign failed")
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(NewAuthHandler(&mockAuthUsecase{LoginFunc: tt.loginFunc}).Login, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
