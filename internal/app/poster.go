package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/five82/pickup/internal/config"
	"github.com/five82/pickup/internal/imagehost"
	"github.com/five82/pickup/internal/listing"
	"github.com/five82/pickup/internal/registry"
	"github.com/five82/pickup/internal/session"
)

// Poster creates items and comments on behalf of the logged-in user.
type Poster struct {
	client   *registry.Client
	uploader *imagehost.Uploader
	session  session.Reader
	list     *listing.List
	logger   *slog.Logger
}

// NewPoster builds a Poster. A nil uploader disables photos.
func NewPoster(client *registry.Client, uploader *imagehost.Uploader, sess session.Reader, list *listing.List, logger *slog.Logger) *Poster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poster{client: client, uploader: uploader, session: sess, list: list, logger: logger}
}

// PhotosEnabled reports whether Post accepts a photo path.
func (p *Poster) PhotosEnabled() bool {
	return p.uploader.Enabled()
}

// ValidateDraft checks the fields a new item needs before anything is sent.
func ValidateDraft(draft registry.NewItem) error {
	if strings.TrimSpace(draft.Title) == "" {
		return fmt.Errorf("%w: title", ErrRequired)
	}
	if strings.TrimSpace(draft.Details) == "" {
		return fmt.Errorf("%w: details", ErrRequired)
	}
	if draft.Latitude < -90 || draft.Latitude > 90 {
		return fmt.Errorf("latitude %v out of range", draft.Latitude)
	}
	if draft.Longitude < -180 || draft.Longitude > 180 {
		return fmt.Errorf("longitude %v out of range", draft.Longitude)
	}
	return nil
}

// Post uploads the optional photo, creates the item and appends it to the
// list.
func (p *Poster) Post(ctx context.Context, draft registry.NewItem, photoPath string) (registry.Item, error) {
	userID, ok := p.session.UserID()
	if !ok {
		return registry.Item{}, ErrNotLoggedIn
	}
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Details = strings.TrimSpace(draft.Details)
	if err := ValidateDraft(draft); err != nil {
		return registry.Item{}, err
	}
	draft.OwnerID = userID

	if photoPath = strings.TrimSpace(photoPath); photoPath != "" {
		resolved, err := config.ExpandPath(photoPath)
		if err != nil {
			return registry.Item{}, fmt.Errorf("resolve photo path: %w", err)
		}
		imageURL, err := p.uploader.UploadFile(ctx, resolved)
		if err != nil {
			return registry.Item{}, err
		}
		draft.ImageURL = imageURL
	}

	created, err := p.client.CreateItem(ctx, draft)
	if err != nil {
		return registry.Item{}, fmt.Errorf("create item: %w", err)
	}
	if created.ID <= 0 {
		return registry.Item{}, errors.New("create item: registry returned no item id")
	}
	if created.OwnerID == 0 {
		created.OwnerID = userID
	}

	if err := p.list.Append(created); err != nil && !errors.Is(err, listing.ErrDuplicateKey) {
		return created, err
	}
	p.logger.Info("item posted", "item_id", created.ID, "photo", created.ImageURL != "")
	return created, nil
}

// Comments returns the comments on itemID, newest first.
func (p *Poster) Comments(ctx context.Context, itemID int64) ([]registry.Comment, error) {
	comments, err := p.client.FetchComments(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].ParsedCreatedAt().After(comments[j].ParsedCreatedAt())
	})
	return comments, nil
}

// Comment posts text on itemID.
func (p *Poster) Comment(ctx context.Context, itemID int64, text string) (registry.Comment, error) {
	userID, ok := p.session.UserID()
	if !ok {
		return registry.Comment{}, ErrNotLoggedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return registry.Comment{}, fmt.Errorf("%w: comment", ErrRequired)
	}
	comment, err := p.client.PostComment(ctx, userID, itemID, text)
	if err != nil {
		return registry.Comment{}, fmt.Errorf("post comment: %w", err)
	}
	p.logger.Info("comment posted", "item_id", itemID)
	return comment, nil
}
