// Package session manages the signed-in user and persists it in the kv store.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sportx/kvstore"
)

const (
	KeyAuthToken = "@auth_token"
	KeyUserData  = "@user_data"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSignupFailed       = errors.New("signup failed")
)

type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// State is the externally visible session.
type State struct {
	User     *User  `json:"user,omitempty"`
	Token    string `json:"token,omitempty"`
	LoggedIn bool   `json:"isLoggedIn"`
}

type SignupRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Session authenticates against a DummyJSON-compatible endpoint. The local
// admin/admin account never leaves the process.
type Session struct {
	store      kvstore.Store
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.RWMutex
	user  *User
	token string
}

func New(store kvstore.Store, baseURL string, timeout time.Duration, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Session{
		store:      store,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Session) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	if s.user == nil || s.token == "" {
		return State{}
	}
	u := *s.user
	return State{User: &u, Token: s.token, LoggedIn: true}
}

type authResponse struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	Message     string `json:"message"`
}

func (r authResponse) user() User {
	return User{ID: r.ID, Username: r.Username, Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
}

func (s *Session) Login(ctx context.Context, username, password string) (State, error) {
	if username == "admin" && password == "admin" {
		user := User{ID: 1, Username: "admin", Email: "admin@sportx.com", FirstName: "Admin", LastName: "User"}
		return s.establish(ctx, user, "admin-token-"+s.millis())
	}

	var resp authResponse
	status, err := s.post(ctx, "/auth/login", map[string]string{"username": username, "password": password}, &resp)
	if err != nil {
		return State{}, err
	}
	if status != http.StatusOK {
		if resp.Message != "" {
			return State{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, resp.Message)
		}
		return State{}, ErrInvalidCredentials
	}

	token := resp.AccessToken
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		return State{}, fmt.Errorf("login response for %s carried no token", username)
	}
	return s.establish(ctx, resp.user(), token)
}

// Signup registers a user. The endpoint issues no token, so a local one is minted.
func (s *Session) Signup(ctx context.Context, req SignupRequest) (State, error) {
	var resp authResponse
	status, err := s.post(ctx, "/users/add", req, &resp)
	if err != nil {
		return State{}, err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		if resp.Message != "" {
			return State{}, fmt.Errorf("%w: %s", ErrSignupFailed, resp.Message)
		}
		return State{}, fmt.Errorf("%w: status %d", ErrSignupFailed, status)
	}
	return s.establish(ctx, resp.user(), "dummy-token-"+s.millis())
}

func (s *Session) millis() string {
	return strconv.FormatInt(s.now().UnixMilli(), 10)
}

func (s *Session) establish(ctx context.Context, user User, token string) (State, error) {
	data, err := json.Marshal(user)
	if err != nil {
		return State{}, fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.store.Set(ctx, KeyAuthToken, token); err != nil {
		return State{}, fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.store.Set(ctx, KeyUserData, string(data)); err != nil {
		return State{}, fmt.Errorf("failed to persist user: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = &user, token
	s.logger.Info("User signed in", "username", user.Username)
	return s.stateLocked(), nil
}

// Restore loads the persisted session. A JWT past its expiry is discarded
// together with the stored user; opaque tokens are kept as they are.
func (s *Session) Restore(ctx context.Context) State {
	token, err := s.store.Get(ctx, KeyAuthToken)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Error("Restore auth error", "error", err)
		}
		return State{}
	}
	raw, err := s.store.Get(ctx, KeyUserData)
	if err != nil {
		if !errors.Is(err, kvstore.ErrNotFound) {
			s.logger.Error("Restore auth error", "error", err)
		}
		return State{}
	}
	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Error("Restore auth error", "error", err)
		return State{}
	}

	if s.expired(token) {
		s.logger.Info("Discarding expired session token", "username", user.Username)
		if err := s.clear(ctx); err != nil {
			s.logger.Error("Failed to clear expired session", "error", err)
		}
		return State{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user, s.token = &user, token
	return s.stateLocked()
}

func (s *Session) expired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(s.now())
}

func (s *Session) Logout(ctx context.Context) error {
	if err := s.clear(ctx); err != nil {
		return err
	}
	s.logger.Info("User signed out")
	return nil
}

func (s *Session) clear(ctx context.Context) error {
	s.mu.Lock()
	s.user, s.token = nil, ""
	s.mu.Unlock()

	if err := s.store.Remove(ctx, KeyAuthToken); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if err := s.store.Remove(ctx, KeyUserData); err != nil {
		return fmt.Errorf("failed to remove user: %w", err)
	}
	return nil
}

func (s *Session) post(ctx context.Context, path string, body any, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil && resp.StatusCode == http.StatusOK {
			return resp.StatusCode, fmt.Errorf("failed to unmarshal %s response: %w", path, err)
		}
	}
	return resp.StatusCode, nil
}
