package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const registryTimestampLayout = "2006-01-02 15:04:05"

// Item mirrors an item record returned by the registry.
type Item struct {
	ID           int64   `json:"item_id"`
	OwnerID      int64   `json:"user_id"`
	Title        string  `json:"title"`
	Details      string  `json:"details"`
	ImageURL     string  `json:"image_url,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	IsGeneral    bool    `json:"is_general"`
	Availability bool    `json:"availability"`
	CreatedAt    string  `json:"created_at"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (i Item) ParsedCreatedAt() time.Time {
	return parseTime(i.CreatedAt)
}

// AvailabilityLabel is the user-facing name of the availability flag.
func (i Item) AvailabilityLabel() string {
	return AvailabilityLabel(i.Availability)
}

// Validate reports whether the record is usable by the client.
func (i Item) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("item id %d is not positive", i.ID)
	}
	if i.Latitude < -90 || i.Latitude > 90 {
		return fmt.Errorf("item %d latitude %v out of range", i.ID, i.Latitude)
	}
	if i.Longitude < -180 || i.Longitude > 180 {
		return fmt.Errorf("item %d longitude %v out of range", i.ID, i.Longitude)
	}
	return nil
}

// AvailabilityLabel renders an availability flag.
func AvailabilityLabel(available bool) string {
	if available {
		return "Available"
	}
	return "Unavailable"
}

// NewItem is the payload for POST /items.
type NewItem struct {
	OwnerID      int64   `json:"user_id"`
	Title        string  `json:"title"`
	Details      string  `json:"details"`
	ImageURL     string  `json:"image_url"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	IsGeneral    bool    `json:"is_general"`
	Availability bool    `json:"availability"`
}

// User mirrors a user profile.
type User struct {
	ID        int64  `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Comment mirrors a comment attached to an item.
type Comment struct {
	ID        int64  `json:"comment_id"`
	ItemID    int64  `json:"item_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Text      string `json:"comment_text"`
	CreatedAt string `json:"created_at"`
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (c Comment) ParsedCreatedAt() time.Time {
	return parseTime(c.CreatedAt)
}

// ItemList decodes item collections. The registry answers with either a bare
// array or an object wrapping the array under "items".
type ItemList []Item

// UnmarshalJSON accepts both list shapes.
func (l *ItemList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*l = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var wrapped struct {
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		return err
	}
	*l = wrapped.Items
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID int64 `json:"user_id"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	User User `json:"user"`
}

type updateUserRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

type availabilityRequest struct {
	Availability bool `json:"availability"`
}

type commentListResponse struct {
	Comments []Comment `json:"comment"`
}

type commentRequest struct {
	Text   string `json:"comment_text"`
	UserID int64  `json:"user_id"`
	ItemID int64  `json:"item_id"`
}

type commentResponse struct {
	Comment Comment `json:"comment"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(registryTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
