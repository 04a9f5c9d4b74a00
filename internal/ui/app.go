package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/logging"
	"github.com/five82/pickup/internal/prefs"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/session"
	"github.com/five82/pickup/internal/toggle"
)

// Authenticator logs users in and out.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (int64, error)
	Register(ctx context.Context, email, username, password string) error
	Logout() error
}

// Loader fills the shared list for the feed or account view.
type Loader interface {
	ShowFeed(ctx context.Context) error
	ShowAccount(ctx context.Context) error
	Refresh(ctx context.Context) error
	Reset()
	Profile() registry.User
	UpdateProfile(ctx context.Context, email, username string) (registry.User, error)
}

// Publisher creates items and comments.
type Publisher interface {
	PhotosEnabled() bool
	Post(ctx context.Context, draft registry.NewItem, photoPath string) (registry.Item, error)
	Comments(ctx context.Context, itemID int64) ([]registry.Comment, error)
	Comment(ctx context.Context, itemID int64, text string) (registry.Comment, error)
}

// Toggler flips item availability. It is implemented by *toggle.Synchronizer.
type Toggler interface {
	SetAvailability(ctx context.Context, itemID int64, desired bool) toggle.Outcome
}

var _ Toggler = (*toggle.Synchronizer)(nil)

// Options configures the UI.
type Options struct {
	Context   context.Context
	List      *listing.List
	Session   session.Reader
	Auth      Authenticator
	Loader    Loader
	Poster    Publisher
	Toggler   Toggler
	ThemeName string
	SortName  string
	PrefsPath string
	// LogPath is the JSON log shown on the activity screen.
	LogPath string
	Logger  *slog.Logger
	Tick    time.Duration
}

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenFeed
	screenAccount
	screenDetail
	screenNewItem
	screenProfile
	screenActivity
)

func (s screen) title() string {
	switch s {
	case screenLogin:
		return "Log in"
	case screenRegister:
		return "Register"
	case screenFeed:
		return "Feed"
	case screenAccount:
		return "My items"
	case screenDetail:
		return "Item"
	case screenNewItem:
		return "Post item"
	case screenProfile:
		return "Profile"
	case screenActivity:
		return "Activity"
	default:
		return ""
	}
}

func (s screen) isForm() bool {
	switch s {
	case screenLogin, screenRegister, screenNewItem, screenProfile:
		return true
	default:
		return false
	}
}

const noticeTTL = 4 * time.Second

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeWarning
	noticeError
)

type notice struct {
	text    string
	level   noticeLevel
	expires time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	list      *listing.List
	session   session.Reader
	auth      Authenticator
	loader    Loader
	poster    Publisher
	toggler   Toggler
	prefsPath string
	logPath   string
	logger    *slog.Logger
	tick      time.Duration
	keys      keyMap
	now       func() time.Time

	theme  Theme
	order  listing.Order
	width  int
	height int
	ready  bool

	screen   screen
	back     screen
	selected int
	loading  bool
	showHelp bool
	notice   notice

	form form

	detailID     int64
	comments     []registry.Comment
	commentsErr  string
	composing    bool
	commentInput textinput.Model

	activity    []logging.Entry
	activityErr string
}

// New creates the model. A logged-in session starts on the feed, otherwise on
// the login form.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	list := opts.List
	if list == nil {
		list = &listing.List{}
	}

	comment := textinput.New()
	comment.Placeholder = "Write a comment"
	comment.CharLimit = 500
	comment.Width = 60

	m := Model{
		ctx:          ctx,
		list:         list,
		session:      opts.Session,
		auth:         opts.Auth,
		loader:       opts.Loader,
		poster:       opts.Poster,
		toggler:      opts.Toggler,
		prefsPath:    prefsPath,
		logPath:      opts.LogPath,
		logger:       logger,
		tick:         tick,
		keys:         defaultKeyMap(),
		now:          time.Now,
		theme:        GetTheme(opts.ThemeName),
		order:        listing.ParseOrder(opts.SortName),
		commentInput: comment,
	}
	if _, ok := m.userID(); ok {
		m.screen = screenFeed
		m.back = screenFeed
		m.loading = true
	} else {
		m.screen = screenLogin
		m.form = loginForm("")
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.screen == screenFeed {
		cmds = append(cmds, m.loadCmd(screenFeed))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		if !m.notice.expires.IsZero() && m.now().After(m.notice.expires) {
			m.notice = notice{}
		}
		return m, tickCmd(m.tick)

	case listChangedMsg:
		m.clampSelection()
		return m, nil

	case loginMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = describeError(msg.err)
			return m, nil
		}
		m.notify(noticeSuccess, "Logged in")
		return m.openList(screenFeed)

	case registerMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = describeError(msg.err)
			return m, nil
		}
		m.screen = screenLogin
		m.form = loginForm(msg.email)
		m.form.focusField(1)
		m.notify(noticeSuccess, "Account created, please log in")
		return m, nil

	case loadedMsg:
		if m.screen == screenLogin || m.screen == screenRegister || msg.screen != m.listScreen() {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, session.ErrNotLoggedIn) {
				return m.toLogin("Session expired, please log in")
			}
			m.notify(noticeError, "Refresh failed: "+describeError(msg.err))
		}
		m.clampSelection()
		return m, nil

	case toggleMsg:
		return m.handleOutcome(toggle.Outcome(msg))

	case postedMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = describeError(msg.err)
			return m, nil
		}
		m.screen = m.back
		m.selectItem(msg.item.ID)
		m.notify(noticeSuccess, "Posted "+msg.item.Title)
		return m, nil

	case commentsMsg:
		if msg.itemID != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			m.commentsErr = describeError(msg.err)
			return m, nil
		}
		m.commentsErr = ""
		m.comments = msg.comments
		return m, nil

	case commentPostedMsg:
		if msg.err != nil {
			m.notify(noticeError, "Comment failed: "+describeError(msg.err))
			return m, nil
		}
		if msg.itemID == m.detailID {
			m.comments = append([]registry.Comment{msg.comment}, m.comments...)
		}
		m.notify(noticeSuccess, "Comment posted")
		return m, nil

	case activityMsg:
		if msg.err != nil {
			m.activityErr = describeError(msg.err)
			return m, nil
		}
		m.activityErr = ""
		m.activity = msg.entries
		return m, nil

	case profileMsg:
		m.form.busy = false
		if msg.err != nil {
			m.form.err = describeError(msg.err)
			return m, nil
		}
		m.screen = screenAccount
		m.notify(noticeSuccess, "Profile updated")
		return m, nil

	case logoutMsg:
		if msg.err != nil {
			m.notify(noticeError, "Logout failed: "+describeError(msg.err))
			return m, nil
		}
		return m.toLogin("Logged out")
	}

	if m.screen.isForm() {
		var cmd tea.Cmd
		m.form, cmd, _ = m.form.update(msg, m.keys)
		return m, cmd
	}
	if m.composing {
		var cmd tea.Cmd
		m.commentInput, cmd = m.commentInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	footer := m.renderCommandBar()
	status := m.renderNotice()
	bodyHeight := max(m.height-3, 1)

	var body string
	switch m.screen {
	case screenFeed, screenAccount:
		body = m.renderList(bodyHeight)
	case screenDetail:
		body = m.renderDetail(bodyHeight)
	case screenActivity:
		body = m.renderActivity(bodyHeight)
	default:
		body = m.renderForm()
	}
	body = fitHeight(body, bodyHeight)

	return strings.Join([]string{header, body, status, footer}, "\n")
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.screen.isForm() {
		return m.handleFormKey(msg)
	}
	if m.composing {
		return m.handleComposeKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.Logout):
		return m, m.logoutCmd()
	case key.Matches(msg, m.keys.Feed):
		return m.openList(screenFeed)
	case key.Matches(msg, m.keys.Account):
		return m.openList(screenAccount)
	case key.Matches(msg, m.keys.Activity):
		if m.screen != screenActivity {
			m.back = m.listScreen()
		}
		m.screen = screenActivity
		return m, m.activityCmd()
	case key.Matches(msg, m.keys.NewItem):
		m.back = m.listScreen()
		m.screen = screenNewItem
		m.form = newItemForm(m.poster != nil && m.poster.PhotosEnabled())
		return m, nil
	}

	switch m.screen {
	case screenFeed, screenAccount:
		return m.handleListKey(msg)
	case screenDetail:
		return m.handleDetailKey(msg)
	case screenActivity:
		switch {
		case key.Matches(msg, m.keys.Back):
			m.screen = m.back
		case key.Matches(msg, m.keys.Refresh):
			return m, m.activityCmd()
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		switch m.screen {
		case screenRegister:
			m.screen = screenLogin
			m.form = loginForm("")
		case screenNewItem:
			m.screen = m.back
		case screenProfile:
			m.screen = screenAccount
		}
		return m, nil
	case m.screen == screenLogin && key.Matches(msg, m.keys.Register):
		m.screen = screenRegister
		m.form = registerForm()
		return m, nil
	}

	var (
		cmd       tea.Cmd
		submitted bool
	)
	m.form, cmd, submitted = m.form.update(msg, m.keys)
	if !submitted {
		return m, cmd
	}
	m.form.err = ""
	switch m.screen {
	case screenLogin:
		return m.submitLogin()
	case screenRegister:
		return m.submitRegister()
	case screenNewItem:
		return m.submitNewItem()
	case screenProfile:
		return m.submitProfile()
	}
	return m, nil
}

func (m Model) handleOutcome(o toggle.Outcome) (tea.Model, tea.Cmd) {
	switch o.Kind {
	case toggle.Confirmed:
		m.notify(noticeSuccess, o.Message())
	case toggle.RolledBack:
		m.notify(noticeError, o.Message())
	case toggle.Unauthenticated:
		return m.toLogin(o.Message())
	default:
		m.notify(noticeWarning, o.Message())
	}
	return m, nil
}

// openList switches to the feed or account view and loads it.
func (m Model) openList(s screen) (tea.Model, tea.Cmd) {
	if s != m.listScreen() || m.screen == screenLogin {
		m.selected = 0
	}
	m.screen = s
	m.back = s
	m.loading = true
	m.composing = false
	return m, m.loadCmd(s)
}

func (m Model) toLogin(text string) (tea.Model, tea.Cmd) {
	m.screen = screenLogin
	m.back = screenFeed
	m.form = loginForm("")
	m.selected = 0
	m.detailID = 0
	m.comments = nil
	m.composing = false
	m.loading = false
	m.notify(noticeInfo, text)
	return m, nil
}

// listScreen is the list view behind the current screen.
func (m Model) listScreen() screen {
	switch m.screen {
	case screenFeed, screenAccount:
		return m.screen
	}
	if m.back == screenAccount {
		return screenAccount
	}
	return screenFeed
}

func (m *Model) notify(level noticeLevel, text string) {
	m.notice = notice{text: text, level: level, expires: m.now().Add(noticeTTL)}
}

func (m Model) userID() (int64, bool) {
	if m.session == nil {
		return 0, false
	}
	return m.session.UserID()
}

func (m *Model) savePrefs() {
	p := prefs.Prefs{Theme: m.theme.Name, Sort: m.order.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
		m.notify(noticeWarning, "Could not save preferences")
	}
}

// describeError turns an error into a short user-facing sentence.
func describeError(err error) string {
	switch {
	case errors.Is(err, registry.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, registry.ErrEmailTaken):
		return "Email already registered"
	case errors.Is(err, session.ErrNotLoggedIn):
		return "User not logged in"
	case registry.IsTimeout(err):
		return "Request timed out"
	}
	var se *registry.StatusError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}

// fitHeight pads or clips s to exactly height lines.
func fitHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context is cancelled.
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(opts.Context))

	// List writes happen on command goroutines; Send from a fresh goroutine
	// so a writer never blocks on the program loop.
	cancel := m.list.Subscribe(func(c listing.Change) {
		go p.Send(listChangedMsg(c))
	})
	defer cancel()

	_, err := p.Run()
	if err != nil && opts.Context.Err() != nil {
		return nil
	}
	return err
}
