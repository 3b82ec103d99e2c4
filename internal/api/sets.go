package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/exotics/internal/hexcolor"
	"github.com/erazemk/exotics/internal/model"
	"github.com/erazemk/exotics/internal/profile"
	"github.com/erazemk/exotics/internal/search"
	"github.com/erazemk/exotics/internal/sets"
)

// SetsHandler serves the set search endpoints. Like the item endpoints, the
// canonical revision validates and the legacy revision degrades to an empty
// page; both are part of the contract.
type SetsHandler struct {
	DB       *sql.DB
	Resolver *profile.Resolver
}

// Search handles GET /api/sets: the validating revision. Color and query are
// required; a missing or malformed value is a client error.
func (h *SetsHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	color := hexcolor.Normalize(params.Get("color"))
	if color == "" {
		jsonError(w, http.StatusBadRequest, "color is required and must be 3- or 6-digit hex")
		return
	}
	nameQuery := params.Get("query")
	if nameQuery == "" {
		jsonError(w, http.StatusBadRequest, "query is required")
		return
	}

	query := sets.Query{
		Color:     color,
		NameQuery: nameQuery,
		Scheme:    search.SchemeNibble,
		Page:      intParam(params.Get("page"), 1),
		PageSize:  clampInt(intParam(params.Get("pageSize"), 20), 1, 100),
	}

	if raw := params.Get("tolerance"); raw != "" {
		tol, err := strconv.Atoi(raw)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid tolerance: expected an integer")
			return
		}
		query.Tolerance = clampInt(tol, 0, hexcolor.MaxNibbleDistance)
	}

	h.respond(w, r, query)
}

// SearchLegacy handles GET /api/legacy/sets: the permissive revision. Missing
// or malformed required parameters yield an empty-but-ok payload, distances
// are Manhattan, and the page size tops out at the old UI's 24 cards.
func (h *SetsHandler) SearchLegacy(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	query := sets.Query{
		Color:     hexcolor.Normalize(params.Get("color")), // "" yields an empty result
		NameQuery: params.Get("query"),
		Scheme:    search.SchemeManhattan,
		Page:      intParam(params.Get("page"), 1),
		PageSize:  clampInt(intParam(params.Get("pageSize"), 20), 1, 24),
	}
	if tol, err := strconv.Atoi(params.Get("tolerance")); err == nil && tol > 0 {
		query.Tolerance = tol
	}

	h.respond(w, r, query)
}

func (h *SetsHandler) respond(w http.ResponseWriter, r *http.Request, query sets.Query) {
	result, err := sets.Find(r.Context(), h.DB, query)
	if err != nil {
		slog.Error("set search failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "set search failed")
		return
	}

	// Enrich the page (and only the page) with owner info.
	var owners []string
	for _, group := range result.Groups {
		owners = append(owners, group.OwnerUUID)
	}
	if len(owners) > 0 {
		usernames := h.Resolver.ResolveBatch(r.Context(), owners)
		for _, group := range result.Groups {
			group.Owner = model.NewOwnerInfo(group.OwnerUUID, usernames[group.OwnerUUID])
		}
	}

	jsonOK(w, map[string]any{
		"page":       result.Page,
		"pageSize":   result.PageSize,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"sets":       result.Groups,
		"color":      query.Color,
		"tolerance":  query.Tolerance,
	})
}
