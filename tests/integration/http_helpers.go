package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/webfinancas/api/internal/auth"
	"github.com/webfinancas/api/internal/config"
	"github.com/webfinancas/api/internal/database"
	"github.com/webfinancas/api/internal/handlers"
	middlewareCustom "github.com/webfinancas/api/internal/middleware"
	"github.com/webfinancas/api/internal/routes"
	"github.com/webfinancas/api/internal/services"
)

// SentEmail represents a captured email message.
type SentEmail struct {
	To    string
	Token string
}

// MockEmailService captures password reset emails for test assertions.
type MockEmailService struct {
	SentEmails []SentEmail
	mu         sync.Mutex
}

// SendPasswordResetEmail records the email instead of sending it.
func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{To: email, Token: token})
	return nil
}

// GetLastEmail returns the most recent captured email.
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// TestServer wraps httptest.Server with the database and all dependencies.
type TestServer struct {
	Server       *httptest.Server
	DB           *database.DB
	EmailService *MockEmailService
	Config       *config.Config
	TokenManager *auth.TokenManager

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with a real database and mocked email.
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-32-characters-long-for-testing",
			SessionTokenExpiry:   1 * time.Hour,
			ResetTokenExpiry:     1 * time.Hour,
			ResetCleanupInterval: 1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
		},
	}

	userRepo, transactionRepo, feedbackRepo := InitializeRepositories(db)

	mockEmail := &MockEmailService{}

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTokenExpiry)

	userService := services.NewUserService(userRepo, tokenManager, mockEmail, cfg.Auth.ResetTokenExpiry, logger)
	transactionService := services.NewTransactionService(transactionRepo, logger)
	feedbackService := services.NewFeedbackService(feedbackRepo, userRepo, logger)
	adminService := services.NewAdminService(userRepo, logger)

	userHandler := handlers.NewUserHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	adminHandler := handlers.NewAdminHandler(adminService)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, userHandler, transactionHandler, feedbackHandler, adminHandler, tokenManager, userRepo)

	server := httptest.NewServer(r)

	return &TestServer{
		Server:       server,
		DB:           db,
		EmailService: mockEmail,
		Config:       cfg,
		TokenManager: tokenManager,
		logger:       logger,
	}
}

// Close shuts down the test server.
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server.
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithAuth makes an authenticated HTTP request with a session token.
func (ts *TestServer) RequestWithAuth(method, path, token string, body interface{}) (*http.Response, error) {
	headers := map[string]string{
		"Authorization": "Bearer " + token,
	}
	return ts.Request(method, path, body, headers)
}

// ParseJSONResponse parses a JSON response body into the target struct.
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractToken extracts the session token from an auth response.
func ExtractToken(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	var authResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", err
	}

	token, _ := authResp["token"].(string)
	return token, nil
}

// GetErrorMessage extracts the error message from an error response.
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["message"].(string); ok {
		return msg, nil
	}
	return "", nil
}
