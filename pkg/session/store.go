package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store is the durable persistence of the current session. Load
// returns (nil, nil) when nothing is saved; it does no expiry
// check, that policy belongs to the Manager.
type Store interface {
	Save(token, userID string, expiry time.Time) error
	Load() (*Session, error)
	Clear() error
}

// The persisted document. Key names and the ISO-8601 expiry format
// are part of the storage contract.
type storedSession struct {
	Token      string `json:"token"`
	UserID     string `json:"userId"`
	ExpiryDate string `json:"expiryDate"`
}

// FileStore keeps the session in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed store. If path is empty it
// uses ~/.feed-client/session.json. The directory is created
// lazily on the first Save.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("session/store: can't get home directory, %w", err)
		}
		path = filepath.Join(home, ".feed-client", "session.json")
	}
	return &FileStore{path: path}, nil
}

func (fs *FileStore) Save(token, userID string, expiry time.Time) error {
	if err := os.MkdirAll(filepath.Dir(fs.path), 0700); err != nil {
		return fmt.Errorf("session/store: can't create store directory, %w", err)
	}

	data, err := json.MarshalIndent(storedSession{
		Token:      token,
		UserID:     userID,
		ExpiryDate: expiry.Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("session/store: can't marshal session, %w", err)
	}

	// Write to a temp file first, then rename, so Load never
	// observes a partial write.
	tempPath := fs.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("session/store: can't write session file, %w", err)
	}
	if err := os.Rename(tempPath, fs.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("session/store: can't save session file, %w", err)
	}
	return nil
}

func (fs *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session/store: can't read session file, %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("session/store: can't parse session file, %w", err)
	}

	expiry, err := time.Parse(time.RFC3339Nano, stored.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("session/store: can't parse expiry date `%s`, %w", stored.ExpiryDate, err)
	}

	return &Session{
		Token:  stored.Token,
		UserID: stored.UserID,
		Expiry: expiry,
	}, nil
}

func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session/store: can't remove session file, %w", err)
	}
	return nil
}
