// Package search implements the item query engine: filter, rank, paginate.
package search

import (
	"context"
	"database/sql"
	"sort"

	"github.com/erazemk/exotics/internal/hexcolor"
	"github.com/erazemk/exotics/internal/model"
	"github.com/erazemk/exotics/internal/piece"
	"github.com/erazemk/exotics/internal/store"
)

// Scheme selects the color distance function. The two schemes commit to
// different tolerance ranges in the API contract and must stay separate.
type Scheme int

const (
	// SchemeNibble is the weighted per-hex-digit distance, range [0, 405].
	SchemeNibble Scheme = iota
	// SchemeManhattan is the legacy per-channel distance, range [0, 765].
	SchemeManhattan
)

// Distance applies the scheme to two canonical colors.
func (s Scheme) Distance(a, b string) int {
	if s == SchemeManhattan {
		return hexcolor.ManhattanDistance(a, b)
	}
	return hexcolor.NibbleDistance(a, b)
}

// Max is the scheme's largest possible distance.
func (s Scheme) Max() int {
	if s == SchemeManhattan {
		return hexcolor.MaxManhattanDistance
	}
	return hexcolor.MaxNibbleDistance
}

// pieceKeywords maps a slot filter to name keywords pushed down as LIKE
// clauses. Deliberately looser than piece.Classify's anchored patterns;
// the two tables overlap but are not the same.
var pieceKeywords = map[piece.Kind][]string{
	piece.Helmet:     {"helmet", "helm"},
	piece.Chestplate: {"chestplate", "chest"},
	piece.Leggings:   {"leggings", "pants", "legs"},
	piece.Boots:      {"boots", "shoes"},
}

// Criteria are the item search inputs. Color must already be canonical
// (hexcolor.Normalize); how a malformed color is handled is the endpoint's
// decision, not the engine's.
type Criteria struct {
	Query     string     // name substring, case-insensitive
	Color     string     // canonical target color, "" for no color filter
	Tolerance int        // 0 = exact match only
	Piece     piece.Kind // piece.None for all slots
	Owners    []string   // owner allowlist; when set it is the sole selection filter
	Scheme    Scheme
	Page      int // 1-based
	PageSize  int // clamped to [1, 200]
}

// Match is one ranked result row.
type Match struct {
	Item     model.Item
	Distance int  // -1 when no color filter applied or item has no color
	Exact    bool // distance == 0 under an active color filter
}

// Result is one page of ranked matches plus full-set totals.
type Result struct {
	Matches    []Match
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Search runs the query engine: fetch candidates, apply the color filter,
// rank, paginate. Ordering is deterministic for equal inputs.
func Search(ctx context.Context, db *sql.DB, c Criteria) (*Result, error) {
	page, pageSize := clampPage(c.Page, c.PageSize, 200)

	candidates, err := fetchCandidates(ctx, db, c)
	if err != nil {
		return nil, err
	}

	ranked := rank(candidates, c)

	return paginate(ranked, page, pageSize), nil
}

// fetchCandidates selects rows from the store, pushing down whatever the
// store can evaluate.
func fetchCandidates(ctx context.Context, db *sql.DB, c Criteria) ([]model.Item, error) {
	// An owner allowlist takes precedence as the sole selection filter; the
	// name, piece, and color filters are ignored on this axis. Kept as
	// observed in production even though it reads like an accident.
	if len(c.Owners) > 0 {
		return store.ListByOwners(ctx, db, c.Owners)
	}

	f := store.Filter{
		NameSubstr: c.Query,
		Keywords:   pieceKeywords[c.Piece],
	}
	// Exact-color requests are an equality predicate the store can evaluate.
	if c.Color != "" && c.Tolerance == 0 {
		f.ExactColor = c.Color
	}
	return store.ListItems(ctx, db, f)
}

// rank applies the in-memory color filter and sorts: exact matches first by
// name, then near matches by distance, ties by name.
func rank(items []model.Item, c Criteria) []Match {
	matches := make([]Match, 0, len(items))

	// Allowlist requests skip the color filter entirely.
	colorActive := c.Color != "" && len(c.Owners) == 0

	for _, item := range items {
		m := Match{Item: item, Distance: -1}
		if colorActive {
			if item.Color == "" {
				continue
			}
			d := c.Scheme.Distance(item.Color, c.Color)
			if d < 0 || d > c.Tolerance {
				continue
			}
			m.Distance = d
			m.Exact = d == 0
		}
		matches = append(matches, m)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Exact != b.Exact {
			return a.Exact
		}
		if !a.Exact && !b.Exact && a.Distance != b.Distance {
			return a.Distance < b.Distance
		}
		return a.Item.Name < b.Item.Name
	})

	return matches
}

// paginate slices the ranked set and records full-set totals.
func paginate(matches []Match, page, pageSize int) *Result {
	total := len(matches)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return &Result{
		Matches:    matches[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}

// clampPage normalizes pagination inputs.
func clampPage(page, pageSize, maxSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}
