package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/session"
)

type view int

const (
	viewNone view = iota
	viewFeed
	viewAccount
)

// Loader fills the shared list from the registry for whichever view is
// active: the global feed or the logged-in user's own items.
type Loader struct {
	client  *registry.Client
	list    *listing.List
	session session.Reader
	logger  *slog.Logger

	mu      sync.Mutex
	view    view
	gen     uint64
	profile registry.User
}

// NewLoader builds a Loader writing into list.
func NewLoader(client *registry.Client, list *listing.List, sess session.Reader, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{client: client, list: list, session: sess, logger: logger}
}

// ShowFeed switches to the global feed and loads it.
func (l *Loader) ShowFeed(ctx context.Context) error {
	l.switchTo(viewFeed)
	return l.Refresh(ctx)
}

// ShowAccount switches to the user's own items and loads them together with
// the profile.
func (l *Loader) ShowAccount(ctx context.Context) error {
	if _, ok := l.session.UserID(); !ok {
		return ErrNotLoggedIn
	}
	l.switchTo(viewAccount)
	return l.Refresh(ctx)
}

// Reset empties the list and forgets the active view, as on logout.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.view = viewNone
	l.gen++
	l.profile = registry.User{}
	_ = l.list.Replace(nil)
}

// Active reports whether a view is loaded.
func (l *Loader) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.view != viewNone
}

// Profile returns the profile fetched with the account view.
func (l *Loader) Profile() registry.User {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.profile
}

// Refresh re-fetches the active view. Results that arrive after the view was
// switched are discarded, and availability written locally while the fetch
// was running survives the replace.
func (l *Loader) Refresh(ctx context.Context) error {
	l.mu.Lock()
	v, gen := l.view, l.gen
	l.mu.Unlock()
	version := l.list.Version()

	var (
		items   []registry.Item
		profile registry.User
		err     error
	)
	switch v {
	case viewNone:
		return nil
	case viewFeed:
		items, err = l.client.FetchAllItems(ctx)
		if err != nil {
			return fmt.Errorf("fetch feed: %w", err)
		}
	case viewAccount:
		userID, ok := l.session.UserID()
		if !ok {
			return ErrNotLoggedIn
		}
		profile, err = l.client.FetchUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("fetch profile: %w", err)
		}
		items, err = l.client.FetchItemsForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("fetch items: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		l.logger.Debug("discarding stale refresh")
		return nil
	}
	if err := l.list.ReplaceSince(version, items); err != nil {
		return fmt.Errorf("replace list: %w", err)
	}
	if v == viewAccount {
		l.profile = profile
	}
	l.logger.Debug("list refreshed", "items", len(items))
	return nil
}

// UpdateProfile changes the user's email and username.
func (l *Loader) UpdateProfile(ctx context.Context, email, username string) (registry.User, error) {
	userID, ok := l.session.UserID()
	if !ok {
		return registry.User{}, ErrNotLoggedIn
	}
	if strings.TrimSpace(email) == "" || strings.TrimSpace(username) == "" {
		return registry.User{}, fmt.Errorf("%w: email and username", ErrRequired)
	}
	user, err := l.client.UpdateUser(ctx, userID, email, username)
	if err != nil {
		return registry.User{}, fmt.Errorf("update profile: %w", err)
	}
	l.mu.Lock()
	l.profile = user
	l.mu.Unlock()
	l.logger.Info("profile updated", "user_id", userID)
	return user, nil
}

func (l *Loader) switchTo(v view) {
	l.mu.Lock()
	l.view = v
	l.gen++
	l.mu.Unlock()
}
