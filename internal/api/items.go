package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/exotics/internal/hexcolor"
	"github.com/erazemk/exotics/internal/model"
	"github.com/erazemk/exotics/internal/piece"
	"github.com/erazemk/exotics/internal/profile"
	"github.com/erazemk/exotics/internal/search"
	"github.com/erazemk/exotics/internal/store"
)

// ItemsHandler serves the item search endpoints. The canonical endpoint
// validates its parameters and uses nibble distance; the legacy endpoint is
// permissive and uses Manhattan distance. Both behaviors are part of the API
// contract and must not be unified.
type ItemsHandler struct {
	DB       *sql.DB
	Resolver *profile.Resolver
}

// itemRecord is one decorated search result row.
type itemRecord struct {
	UUID     string           `json:"uuid"`
	Name     string           `json:"name"`
	Color    string           `json:"color,omitempty"`
	Rarity   string           `json:"rarity,omitempty"`
	Reforge  string           `json:"reforge,omitempty"`
	Price    float64          `json:"price,omitempty"`
	Distance *int             `json:"distance,omitempty"`
	Exact    bool             `json:"exact"`
	Owner    *model.OwnerInfo `json:"owner,omitempty"`
}

// Search handles GET /api/items: the validating revision. Malformed color or
// tolerance is a client error; tolerance is clamped to the nibble range.
func (h *ItemsHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := search.Criteria{
		Query:  q.Get("query"),
		Scheme: search.SchemeNibble,
	}

	if raw := q.Get("color"); raw != "" {
		criteria.Color = hexcolor.Normalize(raw)
		if criteria.Color == "" {
			jsonError(w, http.StatusBadRequest, "invalid color: expected 3- or 6-digit hex")
			return
		}
	}

	if raw := q.Get("tolerance"); raw != "" {
		tol, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid tolerance: expected an integer")
			return
		}
		criteria.Tolerance = clampInt(tol, 0, hexcolor.MaxNibbleDistance)
	}

	if raw := q.Get("piece"); raw != "" && raw != "all" {
		kind := piece.Kind(strings.ToLower(raw))
		if !piece.Valid(kind) {
			jsonError(w, http.StatusBadRequest, "invalid piece: expected helmet, chestplate, leggings, boots, or all")
			return
		}
		criteria.Piece = kind
	}

	criteria.Owners = splitOwners(q.Get("owners"))
	criteria.Page = intParam(q.Get("page"), 1)
	criteria.PageSize = clampInt(intParam(q.Get("pageSize"), 20), 1, 100)

	h.respond(w, r, criteria)
}

// SearchLegacy handles GET /api/legacy/items: the permissive revision. A
// malformed color falls back to "no color filter", unknown pieces are
// ignored, and tolerance is unclamped above zero (the Manhattan scheme never
// bounded it).
func (h *ItemsHandler) SearchLegacy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	criteria := search.Criteria{
		Query:  q.Get("query"),
		Color:  hexcolor.Normalize(q.Get("color")), // "" on malformed input
		Scheme: search.SchemeManhattan,
	}

	if tol, err := strconv.Atoi(q.Get("tolerance")); err == nil && tol > 0 {
		criteria.Tolerance = tol
	}
	if kind := piece.Kind(strings.ToLower(q.Get("piece"))); piece.Valid(kind) {
		criteria.Piece = kind
	}

	criteria.Owners = splitOwners(q.Get("owners"))
	criteria.Page = intParam(q.Get("page"), 1)
	criteria.PageSize = clampInt(intParam(q.Get("pageSize"), 20), 1, 200)

	h.respond(w, r, criteria)
}

// Get handles GET /api/items/{uuid}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetByUUID(r.Context(), h.DB, r.PathValue("uuid"))
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	record := toRecord(search.Match{Item: *item, Distance: -1})
	if owner := item.Extra.OwnerUUID; owner != "" {
		usernames := h.Resolver.ResolveBatch(r.Context(), []string{owner})
		record.Owner = model.NewOwnerInfo(owner, usernames[owner])
	}

	jsonOK(w, map[string]any{"item": record})
}

// respond runs the search and writes the shared response envelope.
func (h *ItemsHandler) respond(w http.ResponseWriter, r *http.Request, criteria search.Criteria) {
	result, err := search.Search(r.Context(), h.DB, criteria)
	if err != nil {
		slog.Error("item search failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "search failed")
		return
	}

	records := h.decorate(r, result.Matches)

	jsonOK(w, map[string]any{
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"items":      records,
		"color":      criteria.Color,
		"tolerance":  criteria.Tolerance,
	})
}

// decorate converts matches to records and enriches the page (and only the
// page) with owner info.
func (h *ItemsHandler) decorate(r *http.Request, matches []search.Match) []itemRecord {
	records := make([]itemRecord, 0, len(matches))
	var owners []string
	for _, m := range matches {
		records = append(records, toRecord(m))
		if owner := m.Item.Extra.OwnerUUID; owner != "" {
			owners = append(owners, owner)
		}
	}

	if len(owners) > 0 {
		usernames := h.Resolver.ResolveBatch(r.Context(), owners)
		for i := range records {
			owner := matches[i].Item.Extra.OwnerUUID
			if owner == "" {
				continue
			}
			records[i].Owner = model.NewOwnerInfo(owner, usernames[owner])
		}
	}

	return records
}

func toRecord(m search.Match) itemRecord {
	record := itemRecord{
		UUID:    m.Item.UUID,
		Name:    m.Item.Name,
		Color:   m.Item.Color,
		Rarity:  m.Item.Rarity,
		Reforge: m.Item.Extra.ReforgeLabel(),
		Price:   m.Item.Price,
		Exact:   m.Exact,
	}
	if m.Distance >= 0 {
		d := m.Distance
		record.Distance = &d
	}
	return record
}

// splitOwners parses the comma-separated owner allowlist.
func splitOwners(raw string) []string {
	if raw == "" {
		return nil
	}
	var owners []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			owners = append(owners, part)
		}
	}
	return owners
}

func intParam(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func clampInt(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
