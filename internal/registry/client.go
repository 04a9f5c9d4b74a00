package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ItemRegistry is the subset of the registry the list views and the toggle
// synchronizer depend on. It is implemented by *Client.
type ItemRegistry interface {
	FetchItemsForUser(ctx context.Context, userID int64) ([]Item, error)
	FetchAllItems(ctx context.Context) ([]Item, error)
	PatchAvailability(ctx context.Context, itemID, userID int64, availability bool) error
}

// Ensure Client implements ItemRegistry at compile time.
var _ ItemRegistry = (*Client)(nil)

// Client talks to the Pick Me Up HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	defaultAPIURL      = "http://127.0.0.1:8000"
	defaultUserAgent   = "pickup/0.1"
	defaultTimeout     = 10 * time.Second
	maxErrorBodyBytes  = 4 << 10
	duplicateKeyMarker = "duplicate key value violates unique constraint"
)

// NewClient builds a Client for apiURL. A zero timeout uses the default and a
// nil logger falls back to slog.Default.
func NewClient(apiURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// Login exchanges credentials for the user id.
func (c *Client) Login(ctx context.Context, email, password string) (int64, error) {
	var payload loginResponse
	body := loginRequest{Email: strings.TrimSpace(email), Password: password}
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/login"}, body, &payload); err != nil {
		if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusNotFound) {
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}
	if payload.UserID <= 0 {
		return 0, ErrInvalidCredentials
	}
	return payload.UserID, nil
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, username, password string) error {
	body := registerRequest{
		Email:    strings.TrimSpace(email),
		Username: strings.TrimSpace(username),
		Password: password,
	}
	err := c.do(ctx, http.MethodPost, &url.URL{Path: "/register"}, body, nil)
	if err == nil {
		return nil
	}
	var se *StatusError
	if errors.As(err, &se) && (se.Code == http.StatusConflict || strings.Contains(se.Message, duplicateKeyMarker)) {
		return ErrEmailTaken
	}
	return err
}

// FetchUser retrieves a user profile.
func (c *Client) FetchUser(ctx context.Context, userID int64) (User, error) {
	var payload userResponse
	rel := &url.URL{Path: "/users/" + strconv.FormatInt(userID, 10)}
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return User{}, err
	}
	if payload.User.ID == 0 {
		payload.User.ID = userID
	}
	return payload.User, nil
}

// UpdateUser changes the email and username of a user.
func (c *Client) UpdateUser(ctx context.Context, userID int64, email, username string) (User, error) {
	var payload User
	rel := &url.URL{
		Path:     "/users/" + strconv.FormatInt(userID, 10),
		RawQuery: ownerQuery(userID),
	}
	body := updateUserRequest{Email: strings.TrimSpace(email), Username: strings.TrimSpace(username)}
	if err := c.do(ctx, http.MethodPatch, rel, body, &payload); err != nil {
		return User{}, err
	}
	if payload.ID == 0 {
		payload.ID = userID
	}
	return payload, nil
}

// FetchItemsForUser retrieves the items posted by userID.
func (c *Client) FetchItemsForUser(ctx context.Context, userID int64) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ItemList
	rel := &url.URL{Path: "/items/user/" + strconv.FormatInt(userID, 10)}
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchAllItems retrieves the global feed.
func (c *Client) FetchAllItems(ctx context.Context) ([]Item, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ItemList
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/items"}, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// PatchAvailability persists the availability flag of one item on behalf of
// userID.
func (c *Client) PatchAvailability(ctx context.Context, itemID, userID int64, availability bool) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if itemID <= 0 {
		return fmt.Errorf("item id required")
	}
	rel := &url.URL{
		Path:     "/items/" + strconv.FormatInt(itemID, 10),
		RawQuery: ownerQuery(userID),
	}
	return c.do(ctx, http.MethodPatch, rel, availabilityRequest{Availability: availability}, nil)
}

// CreateItem posts a new item and returns the stored record.
func (c *Client) CreateItem(ctx context.Context, item NewItem) (Item, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/items"}, item, &raw); err != nil {
		return Item{}, err
	}
	created, err := decodeItem(raw)
	if err != nil {
		return Item{}, fmt.Errorf("decode response: %w", err)
	}
	return created, nil
}

// FetchComments retrieves the comments attached to itemID.
func (c *Client) FetchComments(ctx context.Context, itemID int64) ([]Comment, error) {
	var payload commentListResponse
	values := url.Values{}
	values.Set("item_id", strconv.FormatInt(itemID, 10))
	rel := &url.URL{Path: "/comments", RawQuery: values.Encode()}
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload.Comments, nil
}

// PostComment attaches a comment from userID to itemID.
func (c *Client) PostComment(ctx context.Context, userID, itemID int64, text string) (Comment, error) {
	var payload commentResponse
	body := commentRequest{Text: text, UserID: userID, ItemID: itemID}
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/comments"}, body, &payload); err != nil {
		return Comment{}, err
	}
	return payload.Comment, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	reqURL := c.resolve(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("registry request failed",
			"method", method, "path", rel.Path, "request_id", requestID, "error", err)
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("registry request",
		"method", method, "path", rel.Path, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return &StatusError{Path: rel.Path, Code: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage extracts a server-reported message from an error body.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodyBytes))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return strings.TrimSpace(string(data))
}

func decodeItem(raw json.RawMessage) (Item, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Item{}, nil
	}
	var wrapped struct {
		Item *Item `json:"item"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Item != nil {
		return *wrapped.Item, nil
	}
	var item Item
	if err := json.Unmarshal(raw, &item); err != nil {
		return Item{}, err
	}
	return item, nil
}

// resolve joins rel onto the base URL, keeping any path prefix of the base.
func (c *Client) resolve(rel *url.URL) *url.URL {
	u := *c.baseURL
	u.Path = strings.TrimRight(c.baseURL.Path, "/") + rel.Path
	u.RawQuery = rel.RawQuery
	return &u
}

func ownerQuery(userID int64) string {
	values := url.Values{}
	values.Set("user_id", strconv.FormatInt(userID, 10))
	return values.Encode()
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
