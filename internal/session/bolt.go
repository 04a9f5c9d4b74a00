package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	bolt "github.com/boltdb/bolt"
)

const (
	bucketName = "session"
	userIDKey  = "user_id"
)

// ErrInvalidUserID is returned when a non-positive id is stored.
var ErrInvalidUserID = errors.New("user id must be positive")

// Bolt persists the session in a BoltDB file so it survives restarts. The id
// is stored as its decimal text under a single key.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt opens (or creates) the session file at path, creating parent
// directories as needed.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Close releases the file lock.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// UserID implements Reader. A missing, unreadable or corrupt value reads as
// logged out.
func (b *Bolt) UserID() (int64, bool) {
	var id int64
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(userIDKey))
		if v == nil {
			return nil
		}
		parsed, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return err
		}
		id = parsed
		return nil
	})
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// SetUserID implements Store.
func (b *Bolt) SetUserID(id int64) error {
	if id <= 0 {
		return ErrInvalidUserID
	}
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(userIDKey), []byte(strconv.FormatInt(id, 10)))
	})
	if err != nil {
		return fmt.Errorf("store user id: %w", err)
	}
	return nil
}

// Clear implements Store.
func (b *Bolt) Clear() error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(userIDKey))
	})
	if err != nil {
		return fmt.Errorf("clear user id: %w", err)
	}
	return nil
}
