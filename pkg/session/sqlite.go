package session

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // pure Go SQLite driver
)

// SQLiteStore persists the session in an embedded SQLite database.
// The table holds at most one row: there is a single active session
// per process.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("session/sqlite: failed to open database, %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS session(
		id INTEGER PRIMARY KEY CHECK (id = 1),
		token TEXT NOT NULL,
		user_id TEXT NOT NULL,
		expiry_date TEXT NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("session/sqlite: failed to create schema, %w", err)
	}

	return &SQLiteStore{DB: db}, nil
}

func (sr *SQLiteStore) Save(token, userID string, expiry time.Time) error {
	_, err := sr.DB.Exec(`INSERT INTO session(id, token, user_id, expiry_date) VALUES(1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, user_id = excluded.user_id, expiry_date = excluded.expiry_date`,
		token, userID, expiry.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("session/sqlite: failed insert into session, %w", err)
	}
	return nil
}

func (sr *SQLiteStore) Load() (*Session, error) {
	row := sr.DB.QueryRow(`SELECT token, user_id, expiry_date FROM session WHERE id = 1`)

	var token, userID, expiryDate string
	err := row.Scan(&token, &userID, &expiryDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session/sqlite: row scan failed, %w", err)
	}

	expiry, err := time.Parse(time.RFC3339Nano, expiryDate)
	if err != nil {
		return nil, fmt.Errorf("session/sqlite: can't parse expiry date `%s`, %w", expiryDate, err)
	}

	return &Session{
		Token:  token,
		UserID: userID,
		Expiry: expiry,
	}, nil
}

func (sr *SQLiteStore) Clear() error {
	if _, err := sr.DB.Exec(`DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("session/sqlite: failed delete session, %w", err)
	}
	return nil
}

func (sr *SQLiteStore) Close() error {
	return sr.DB.Close()
}
