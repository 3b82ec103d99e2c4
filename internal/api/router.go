package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/exotics/internal/imaging"
	"github.com/erazemk/exotics/internal/profile"
	"github.com/erazemk/exotics/internal/store"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, resolver *profile.Resolver, renderer *imaging.Renderer) http.Handler {
	mux := http.NewServeMux()

	items := &ItemsHandler{DB: db, Resolver: resolver}
	setsHandler := &SetsHandler{DB: db, Resolver: resolver}
	preview := &PreviewHandler{DB: db, Renderer: renderer}

	// Canonical (validating) endpoints.
	mux.HandleFunc("GET /api/items", items.Search)
	mux.HandleFunc("GET /api/items/{uuid}", items.Get)
	mux.HandleFunc("GET /api/items/{uuid}/preview", preview.Item)
	mux.HandleFunc("GET /api/sets", setsHandler.Search)
	mux.HandleFunc("GET /api/preview/{kind}", preview.Kind)

	// Legacy (permissive) endpoints, kept for old clients. Same data,
	// Manhattan distances, degrade-don't-error parameter handling.
	mux.HandleFunc("GET /api/legacy/items", items.SearchLegacy)
	mux.HandleFunc("GET /api/legacy/sets", setsHandler.SearchLegacy)

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		n, err := store.CountItems(r.Context(), db)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "database unavailable")
			return
		}
		jsonOK(w, map[string]any{"items": n})
	})

	return RecoverMiddleware(mux)
}
