package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/erazemk/exotics/internal/hexcolor"
	"github.com/erazemk/exotics/internal/imaging"
	"github.com/erazemk/exotics/internal/piece"
	"github.com/erazemk/exotics/internal/store"
)

// PreviewHandler serves recolored armor preview images.
type PreviewHandler struct {
	DB       *sql.DB
	Renderer *imaging.Renderer
}

// Item handles GET /api/items/{uuid}/preview: renders the item's own piece
// kind in its own color. A ?color= override previews a different dye.
func (h *PreviewHandler) Item(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetByUUID(r.Context(), h.DB, r.PathValue("uuid"))
	if err != nil {
		slog.Error("failed to get item for preview", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	kind := piece.Classify(item.Name)
	if kind == piece.None {
		jsonError(w, http.StatusBadRequest, "item is not an armor piece")
		return
	}

	colorHex := item.Color
	if raw := r.URL.Query().Get("color"); raw != "" {
		colorHex = hexcolor.Normalize(raw)
	}
	if colorHex == "" {
		jsonError(w, http.StatusBadRequest, "item has no color and no valid override was given")
		return
	}

	h.render(w, kind, colorHex, intParam(r.URL.Query().Get("size"), imaging.DefaultSize))
}

// Kind handles GET /api/preview/{kind}: renders a bare template in an
// arbitrary color, used by the set view for its four slots.
func (h *PreviewHandler) Kind(w http.ResponseWriter, r *http.Request) {
	kind := piece.Kind(r.PathValue("kind"))
	if !piece.Valid(kind) {
		jsonError(w, http.StatusBadRequest, "unknown piece kind")
		return
	}

	colorHex := hexcolor.Normalize(r.URL.Query().Get("color"))
	if colorHex == "" {
		jsonError(w, http.StatusBadRequest, "color is required and must be 3- or 6-digit hex")
		return
	}

	h.render(w, kind, colorHex, intParam(r.URL.Query().Get("size"), imaging.DefaultSize))
}

func (h *PreviewHandler) render(w http.ResponseWriter, kind piece.Kind, colorHex string, size int) {
	data, err := h.Renderer.Preview(kind, colorHex, size)
	if err != nil {
		slog.Error("failed to render preview", "kind", kind, "color", colorHex, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to render preview")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
