// Package sets assembles complete armor sets owned by a single player and
// ranks them against a target color.
package sets

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"github.com/erazemk/exotics/internal/model"
	"github.com/erazemk/exotics/internal/piece"
	"github.com/erazemk/exotics/internal/search"
	"github.com/erazemk/exotics/internal/store"
)

// Query are the set search inputs. Color must be canonical and NameQuery
// non-empty; the endpoint decides whether a missing parameter is an error or
// an empty result.
type Query struct {
	Color     string // canonical target color
	NameQuery string // free-text set name, e.g. "wise dragon"
	Tolerance int
	Scheme    search.Scheme
	Page      int
	PageSize  int // clamped to [1, 100]
}

// Result is one page of ranked set groups plus full-set totals.
type Result struct {
	Groups     []*model.SetGroup
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// bucketKey identifies a set group: one owner assembling one named set
// against one target color.
type bucketKey struct {
	owner string // lowercased owner UUID
	label string
	color string
}

// Find fetches candidate pieces, buckets them per owner, keeps complete sets,
// and ranks by color proximity.
func Find(ctx context.Context, db *sql.DB, q Query) (*Result, error) {
	page, pageSize := q.Page, q.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	if q.Color == "" || q.NameQuery == "" {
		return &Result{Groups: []*model.SetGroup{}, Page: page, PageSize: pageSize}, nil
	}

	required := requiredSlots(q.NameQuery)
	label := setLabel(q.NameQuery)

	// Exact requests push both filters to the store; near requests filter by
	// distance in memory.
	f := store.Filter{NameSubstr: q.NameQuery}
	if q.Tolerance == 0 {
		f.ExactColor = q.Color
	}
	items, err := store.ListItems(ctx, db, f)
	if err != nil {
		return nil, err
	}

	buckets := make(map[bucketKey]*model.SetGroup)
	var order []bucketKey

	for i := range items {
		item := &items[i]

		// A row without an owner, slot, or color can't join a set.
		owner := strings.ToLower(item.Extra.OwnerUUID)
		if owner == "" {
			continue
		}
		kind := piece.Classify(item.Name)
		if kind == piece.None || !required[kind] {
			continue
		}
		if item.Color == "" {
			continue
		}
		dist := q.Scheme.Distance(item.Color, q.Color)
		if dist < 0 || dist > q.Tolerance {
			continue
		}

		key := bucketKey{owner: owner, label: label, color: q.Color}
		group, ok := buckets[key]
		if !ok {
			group = &model.SetGroup{
				OwnerUUID:   owner,
				Label:       label,
				TargetColor: q.Color,
				Rarity:      item.Rarity,
				Pieces:      make(map[piece.Kind]*model.SetPiece),
				Distances:   make(map[piece.Kind]int),
			}
			buckets[key] = group
			order = append(order, key)
		}

		// First writer wins per slot; later rows for a filled slot are
		// dropped regardless of whether they'd match better. Kept as
		// observed behavior, see DESIGN.md.
		if _, filled := group.Pieces[kind]; filled {
			continue
		}
		group.Pieces[kind] = &model.SetPiece{UUID: item.UUID, Name: item.Name, Color: item.Color}
		group.Distances[kind] = dist
	}

	var groups []*model.SetGroup
	for _, key := range order {
		group := buckets[key]
		if !complete(group, required) {
			continue
		}
		finishGroup(group, required)
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		if a.Exact != b.Exact {
			return a.Exact
		}
		if a.AvgDist != b.AvgDist {
			return a.AvgDist < b.AvgDist
		}
		return a.OwnerUUID < b.OwnerUUID
	})

	total := len(groups)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	pageGroups := groups[start:end]
	if pageGroups == nil {
		pageGroups = []*model.SetGroup{}
	}

	return &Result{
		Groups:     pageGroups,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// requiredSlots returns the slots a complete set needs. Dragon sets have no
// helmet; this is a fixed naming convention of the game, not configurable.
func requiredSlots(nameQuery string) map[piece.Kind]bool {
	required := map[piece.Kind]bool{
		piece.Chestplate: true,
		piece.Leggings:   true,
		piece.Boots:      true,
	}
	if !strings.Contains(strings.ToLower(nameQuery), "dragon") {
		required[piece.Helmet] = true
	}
	return required
}

// complete reports whether every required slot is filled.
func complete(group *model.SetGroup, required map[piece.Kind]bool) bool {
	for kind := range required {
		if group.Pieces[kind] == nil {
			return false
		}
	}
	return true
}

// finishGroup computes the aggregate distance fields over required slots.
func finishGroup(group *model.SetGroup, required map[piece.Kind]bool) {
	maxDist, sum, n := 0, 0, 0
	for kind := range required {
		d := group.Distances[kind]
		if d > maxDist {
			maxDist = d
		}
		sum += d
		n++
	}
	group.MaxDist = maxDist
	group.AvgDist = float64(sum) / float64(n)
	group.Exact = maxDist == 0
}

// setLabel synthesizes the display label from the query text, e.g.
// "wise dragon" -> "Wise Dragon Set". The label comes from the query, not the
// item names, so different queries for the same conceptual set stay separate
// groups.
func setLabel(nameQuery string) string {
	words := strings.Fields(strings.ToLower(nameQuery))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ") + " Set"
}
