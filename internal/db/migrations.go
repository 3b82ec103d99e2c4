package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: early imports stored colors without the leading marker.
	// Canonicalize in place so equality pushdown works.
	`UPDATE items
	    SET color = '#' || upper(color)
	  WHERE color IS NOT NULL AND length(color) = 6`,
	`UPDATE items
	    SET color = upper(color)
	  WHERE color IS NOT NULL AND length(color) = 7`,

	// Migration 2: owner lookup used to scan the extra payload per request.
	// Backfill the denormalized owner column for rows imported before it
	// existed.
	`UPDATE items
	    SET owner_uuid = lower(json_extract(extra, '$.owner_playerUuid'))
	  WHERE owner_uuid IS NULL
	    AND extra IS NOT NULL
	    AND json_valid(extra)
	    AND json_extract(extra, '$.owner_playerUuid') IS NOT NULL`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
