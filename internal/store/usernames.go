package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// CachedUsername is one row of the username cache. Username is nil for a
// cached negative result (player unknown upstream).
type CachedUsername struct {
	UUID      string
	Username  *string
	FetchedAt time.Time
}

// GetCachedUsername returns the cached entry for a player UUID, or nil if the
// UUID was never looked up. Staleness is the caller's concern.
func GetCachedUsername(ctx context.Context, db *sql.DB, uuid string) (*CachedUsername, error) {
	entry := &CachedUsername{UUID: uuid}
	var username sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT username, fetched_at FROM usernames WHERE uuid = ?`, uuid,
	).Scan(&username, &entry.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting cached username: %w", err)
	}
	if username.Valid {
		entry.Username = &username.String
	}
	return entry, nil
}

// PutCachedUsername stores a lookup result, replacing any previous entry.
// A nil username records a negative result.
func PutCachedUsername(ctx context.Context, db *sql.DB, uuid string, username *string) error {
	var value sql.NullString
	if username != nil {
		value = sql.NullString{String: *username, Valid: true}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO usernames (uuid, username, fetched_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(uuid) DO UPDATE SET
		     username = excluded.username,
		     fetched_at = CURRENT_TIMESTAMP`,
		uuid, value,
	)
	if err != nil {
		return fmt.Errorf("caching username: %w", err)
	}
	return nil
}
