package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/session"
)

var (
	// ErrNotLoggedIn is returned by operations that act on behalf of a user.
	ErrNotLoggedIn = session.ErrNotLoggedIn
	// ErrRequired is returned when a required form field is blank.
	ErrRequired = errors.New("required field missing")
)

// Auth drives login, logout and registration and keeps the session store in
// step with them.
type Auth struct {
	client *registry.Client
	store  session.Store
	logger *slog.Logger
}

// NewAuth builds an Auth. A nil logger falls back to slog.Default.
func NewAuth(client *registry.Client, store session.Store, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{client: client, store: store, logger: logger}
}

// UserID reports the logged-in user.
func (a *Auth) UserID() (int64, bool) {
	return a.store.UserID()
}

// Login checks the credentials with the registry and stores the returned
// user id.
func (a *Auth) Login(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return 0, fmt.Errorf("%w: email and password", ErrRequired)
	}
	id, err := a.client.Login(ctx, email, password)
	if err != nil {
		a.logger.Info("login rejected", "error", err)
		return 0, err
	}
	if err := a.store.SetUserID(id); err != nil {
		return 0, fmt.Errorf("store session: %w", err)
	}
	a.logger.Info("logged in", "user_id", id)
	return id, nil
}

// Register creates an account. The caller logs in afterwards.
func (a *Auth) Register(ctx context.Context, email, username, password string) error {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)
	if email == "" || username == "" || password == "" {
		return fmt.Errorf("%w: email, username and password", ErrRequired)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("invalid email %q", email)
	}
	if err := a.client.Register(ctx, email, username, password); err != nil {
		return err
	}
	a.logger.Info("account registered", "username", username)
	return nil
}

// Logout clears the session. It is safe to call when nobody is logged in.
func (a *Auth) Logout() error {
	id, _ := a.store.UserID()
	if err := a.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	a.logger.Info("logged out", "user_id", id)
	return nil
}
