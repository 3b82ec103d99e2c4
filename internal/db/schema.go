package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id         INTEGER PRIMARY KEY,
    uuid       TEXT NOT NULL UNIQUE,
    name       TEXT NOT NULL,
    color      TEXT,
    rarity     TEXT,
    price      REAL,
    owner_uuid TEXT,
    extra      TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_name  ON items(name);
CREATE INDEX IF NOT EXISTS idx_items_color ON items(color) WHERE color IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_uuid) WHERE owner_uuid IS NOT NULL;

CREATE TABLE IF NOT EXISTS usernames (
    uuid       TEXT PRIMARY KEY,
    username   TEXT,
    fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
