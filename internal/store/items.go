package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/erazemk/exotics/internal/model"
)

const itemColumns = `id, uuid, name, color, rarity, price, owner_uuid, extra, created_at, updated_at`

// Filter narrows an item listing. Zero-value fields are skipped. All filters
// are conjunctive.
type Filter struct {
	NameSubstr string   // case-insensitive substring of name
	ExactColor string   // canonical "#RRGGBB", equality pushdown
	Keywords   []string // name must contain at least one (piece keyword table)
}

// ListItems returns items matching the filter, ordered by name.
func ListItems(ctx context.Context, db *sql.DB, f Filter) ([]model.Item, error) {
	var conds []string
	var args []any

	if f.NameSubstr != "" {
		conds = append(conds, "name LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(f.NameSubstr)+"%")
	}
	if f.ExactColor != "" {
		conds = append(conds, "color = ?")
		args = append(args, f.ExactColor)
	}
	if len(f.Keywords) > 0 {
		var ors []string
		for _, kw := range f.Keywords {
			ors = append(ors, "name LIKE ? ESCAPE '\\'")
			args = append(args, "%"+escapeLike(kw)+"%")
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListByOwners returns all items held by any of the given owner UUIDs,
// ordered by name. Owner UUIDs are matched lowercased.
func ListByOwners(ctx context.Context, db *sql.DB, owners []string) ([]model.Item, error) {
	if len(owners) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(owners))
	args := make([]any, len(owners))
	for i, o := range owners {
		placeholders[i] = "?"
		args[i] = strings.ToLower(o)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE owner_uuid IN (`+strings.Join(placeholders, ", ")+`)
		 ORDER BY name`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items by owner: %w", err)
	}
	defer rows.Close()

	return scanItems(rows)
}

// GetByUUID returns a single item, or nil if it doesn't exist.
func GetByUUID(ctx context.Context, db *sql.DB, uuid string) (*model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE uuid = ?`, uuid,
	)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// UpsertItem inserts an item or, when the UUID already exists, refreshes its
// mutable columns. The denormalized owner column is derived from the extra
// payload here so queries never have to parse JSON.
func UpsertItem(ctx context.Context, db *sql.DB, item *model.Item, rawExtra string) error {
	owner := sql.NullString{}
	if extra := model.ParseExtra(rawExtra); extra.OwnerUUID != "" {
		owner = sql.NullString{String: strings.ToLower(extra.OwnerUUID), Valid: true}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO items (uuid, name, color, rarity, price, owner_uuid, extra)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(uuid) DO UPDATE SET
		     name = excluded.name,
		     color = excluded.color,
		     rarity = excluded.rarity,
		     price = excluded.price,
		     owner_uuid = excluded.owner_uuid,
		     extra = excluded.extra,
		     updated_at = CURRENT_TIMESTAMP`,
		item.UUID, item.Name,
		nullString(item.Color), nullString(item.Rarity),
		nullFloat(item.Price), owner, nullString(rawExtra),
	)
	if err != nil {
		return fmt.Errorf("upserting item %s: %w", item.UUID, err)
	}
	return nil
}

// CountItems returns the total number of items.
func CountItems(ctx context.Context, db *sql.DB) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return n, nil
}

// scanItems drains rows into items, parsing the extra payload once per row.
func scanItems(rows *sql.Rows) ([]model.Item, error) {
	var items []model.Item
	for rows.Next() {
		var item model.Item
		var color, rarity, owner, extra sql.NullString
		var price sql.NullFloat64
		if err := rows.Scan(&item.ID, &item.UUID, &item.Name, &color, &rarity,
			&price, &owner, &extra, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.Color = color.String
		item.Rarity = rarity.String
		item.Price = price.Float64
		item.Extra = model.ParseExtra(extra.String)
		// The denormalized column wins if the payload didn't parse.
		if item.Extra.OwnerUUID == "" {
			item.Extra.OwnerUUID = owner.String
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: f != 0}
}
