package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/munin-vault/munin/internal/store"
	"github.com/munin-vault/munin/internal/vaultservice"
)

// ListSpaces handles GET /api/spaces with an optional q parameter.
func (h *Handler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.SearchSpaces(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "list spaces", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"spaces": items, "total": len(items)})
}

// CreateSpace handles POST /api/spaces.
func (h *Handler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req vaultservice.SpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	sp, err := h.svc.CreateSpace(req)
	if err != nil {
		writeError(w, "create space", err)
		return
	}
	writeJSON(w, http.StatusCreated, sp)
}

// UpdateSpace handles PATCH /api/spaces/{id}.
func (h *Handler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	var p store.SpacePatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	sp, err := h.svc.UpdateSpace(chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, "update space", err)
		return
	}
	writeJSON(w, http.StatusOK, sp)
}

// DeleteSpace handles DELETE /api/spaces/{id}. Members lose their
// assignment before the space disappears.
func (h *Handler) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteSpace(chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete space", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SpaceArtifacts handles GET /api/spaces/{id}/artifacts.
func (h *Handler) SpaceArtifacts(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.SpaceArtifacts(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "space artifacts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artifacts": items, "total": len(items)})
}
