package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/logging"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/toggle"
)

type (
	tickMsg        time.Time
	listChangedMsg listing.Change
	toggleMsg      toggle.Outcome
)

type loginMsg struct {
	userID int64
	err    error
}

type registerMsg struct {
	email string
	err   error
}

type loadedMsg struct {
	screen screen
	err    error
}

type postedMsg struct {
	item registry.Item
	err  error
}

type commentsMsg struct {
	itemID   int64
	comments []registry.Comment
	err      error
}

type commentPostedMsg struct {
	itemID  int64
	comment registry.Comment
	err     error
}

type profileMsg struct {
	user registry.User
	err  error
}

type activityMsg struct {
	entries []logging.Entry
	err     error
}

type logoutMsg struct {
	err error
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadCmd(s screen) tea.Cmd {
	loader, ctx := m.loader, m.ctx
	if loader == nil {
		return nil
	}
	return func() tea.Msg {
		var err error
		if s == screenAccount {
			err = loader.ShowAccount(ctx)
		} else {
			err = loader.ShowFeed(ctx)
		}
		return loadedMsg{screen: s, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	loader, ctx, s := m.loader, m.ctx, m.listScreen()
	if loader == nil {
		return nil
	}
	return func() tea.Msg {
		return loadedMsg{screen: s, err: loader.Refresh(ctx)}
	}
}

func (m Model) toggleCmd(itemID int64, desired bool) tea.Cmd {
	toggler, ctx := m.toggler, m.ctx
	return func() tea.Msg {
		return toggleMsg(toggler.SetAvailability(ctx, itemID, desired))
	}
}

func (m Model) loginCmd(email, password string) tea.Cmd {
	auth, ctx := m.auth, m.ctx
	return func() tea.Msg {
		id, err := auth.Login(ctx, email, password)
		return loginMsg{userID: id, err: err}
	}
}

func (m Model) registerCmd(email, username, password string) tea.Cmd {
	auth, ctx := m.auth, m.ctx
	return func() tea.Msg {
		return registerMsg{email: email, err: auth.Register(ctx, email, username, password)}
	}
}

func (m Model) logoutCmd() tea.Cmd {
	auth, loader := m.auth, m.loader
	return func() tea.Msg {
		if err := auth.Logout(); err != nil {
			return logoutMsg{err: err}
		}
		if loader != nil {
			loader.Reset()
		}
		return logoutMsg{}
	}
}

func (m Model) postCmd(draft registry.NewItem, photoPath string) tea.Cmd {
	poster, ctx := m.poster, m.ctx
	return func() tea.Msg {
		item, err := poster.Post(ctx, draft, photoPath)
		return postedMsg{item: item, err: err}
	}
}

func (m Model) commentsCmd(itemID int64) tea.Cmd {
	poster, ctx := m.poster, m.ctx
	if poster == nil {
		return nil
	}
	return func() tea.Msg {
		comments, err := poster.Comments(ctx, itemID)
		return commentsMsg{itemID: itemID, comments: comments, err: err}
	}
}

func (m Model) commentCmd(itemID int64, text string) tea.Cmd {
	poster, ctx := m.poster, m.ctx
	return func() tea.Msg {
		comment, err := poster.Comment(ctx, itemID, text)
		return commentPostedMsg{itemID: itemID, comment: comment, err: err}
	}
}

func (m Model) profileCmd(email, username string) tea.Cmd {
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		user, err := loader.UpdateProfile(ctx, email, username)
		return profileMsg{user: user, err: err}
	}
}

// activityLines bounds how much of the log the activity screen reads.
const activityLines = 200

func (m Model) activityCmd() tea.Cmd {
	path := m.logPath
	return func() tea.Msg {
		if path == "" {
			return activityMsg{}
		}
		entries, err := logging.Recent(path, activityLines)
		return activityMsg{entries: entries, err: err}
	}
}
