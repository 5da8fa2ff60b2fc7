package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/munin-vault/munin/internal/vaultservice"
)

// ListAnchors handles GET /api/anchors with an optional q parameter.
func (h *Handler) ListAnchors(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.SearchAnchors(r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, "list anchors", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"anchors": items, "total": len(items)})
}

// SaveAnchor handles POST /api/anchors. A title collision answers 409 with
// the colliding anchor and the resolve target, never an opaque failure.
func (h *Handler) SaveAnchor(w http.ResponseWriter, r *http.Request) {
	var req vaultservice.SaveAnchorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	res, err := h.svc.SaveAnchor(req)
	if err != nil {
		writeError(w, "save anchor", err)
		return
	}
	if res.Conflict != nil {
		writeJSON(w, http.StatusConflict, res)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ResolveAnchorConflict handles POST /api/anchors/{id}/resolve.
func (h *Handler) ResolveAnchorConflict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action      vaultservice.ConflictAction `json:"action"`
		ArtifactIDs []string                    `json:"artifactIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	a, err := h.svc.ResolveAnchorConflict(chi.URLParam(r, "id"), req.Action, req.ArtifactIDs)
	if err != nil {
		writeError(w, "resolve anchor conflict", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// ToggleAnchorTrashed handles POST /api/anchors/{id}/toggle.
func (h *Handler) ToggleAnchorTrashed(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.ToggleAnchorTrashed(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, "toggle anchor", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteAnchor handles DELETE /api/anchors/{id}.
func (h *Handler) DeleteAnchor(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAnchor(chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete anchor", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
