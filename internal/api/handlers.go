package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/queue"
	"github.com/munin-vault/munin/internal/store"
	"github.com/munin-vault/munin/internal/vaultservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc  *vaultservice.Service
	proc *queue.Processor
}

// NewHandler creates a new Handler.
func NewHandler(svc *vaultservice.Service, proc *queue.Processor) *Handler {
	return &Handler{svc: svc, proc: proc}
}

// Capture handles POST /api/capture: free-form text in, typed artifact out.
func (h *Handler) Capture(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var req vaultservice.CaptureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	a, err := h.svc.Capture(r.Context(), req)
	if err != nil {
		writeError(w, "capture", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// CaptureFile handles POST /api/capture/file. The file arrives as a
// multipart form field named "file"; tags and spaceId ride alongside.
func (h *Handler) CaptureFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<20)
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid multipart body"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file field is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	var tags []string
	if raw := r.FormValue("tags"); raw != "" {
		_ = json.Unmarshal([]byte(raw), &tags)
	}

	a, err := h.svc.CaptureFile(r.Context(), vaultservice.FileCaptureRequest{
		SessionID: r.FormValue("sessionId"),
		Name:      header.Filename,
		MediaType: header.Header.Get("Content-Type"),
		Data:      data,
		Tags:      tags,
		SpaceID:   r.FormValue("spaceId"),
	})
	if err != nil {
		writeError(w, "capture file", err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GetDraft handles GET /api/drafts/{session}.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	d, ok := h.svc.Draft(chi.URLParam(r, "session"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// SaveDraft handles PUT /api/drafts/{session}.
func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var d vaultservice.Draft
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	h.svc.SaveDraft(chi.URLParam(r, "session"), d)
	w.WriteHeader(http.StatusNoContent)
}

// ClearDraft handles DELETE /api/drafts/{session}.
func (h *Handler) ClearDraft(w http.ResponseWriter, r *http.Request) {
	h.svc.ClearDraft(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}

// ListArtifacts handles GET /api/artifacts with optional q, space and
// range query parameters.
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.svc.SearchArtifacts(vaultservice.SearchRequest{
		Query:     q.Get("q"),
		SpaceID:   q.Get("space"),
		RangeText: q.Get("range"),
	})
	if err != nil {
		writeError(w, "list artifacts", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"artifacts": items, "total": len(items)})
}

// GetArtifact handles GET /api/artifacts/{id}. With ?edit=1 the content is
// returned in the editor-facing wiki-link form.
func (h *Handler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		a   *models.Artifact
		err error
	)
	if r.URL.Query().Get("edit") != "" {
		a, err = h.svc.EditableArtifact(id)
	} else {
		a, err = h.svc.Artifact(id)
	}
	if err != nil {
		writeError(w, "get artifact", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateArtifact handles PATCH /api/artifacts/{id}.
func (h *Handler) UpdateArtifact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 10<<20)
	var p store.ArtifactPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	a, err := h.svc.UpdateArtifact(chi.URLParam(r, "id"), p)
	if err != nil {
		writeError(w, "update artifact", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// DeleteArtifact handles DELETE /api/artifacts/{id}.
func (h *Handler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteArtifact(chi.URLParam(r, "id")); err != nil {
		writeError(w, "delete artifact", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleArtifact handles POST /api/artifacts/{id}/toggle/{flag}.
func (h *Handler) ToggleArtifact(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.ToggleArtifact(chi.URLParam(r, "id"), vaultservice.Flag(chi.URLParam(r, "flag")))
	if err != nil {
		writeError(w, "toggle artifact", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// AssignToSpace handles POST /api/artifacts/assign.
func (h *Handler) AssignToSpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ArtifactIDs []string `json:"artifactIds"`
		SpaceID     string   `json:"spaceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.AssignToSpace(req.ArtifactIDs, req.SpaceID); err != nil {
		writeError(w, "assign to space", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Detonate handles POST /api/artifacts/detonate.
func (h *Handler) Detonate(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Detonate(); err != nil {
		writeError(w, "detonate", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EmptyTrash handles POST /api/trash/empty.
func (h *Handler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.EmptyTrash(); err != nil {
		writeError(w, "empty trash", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export handles GET /api/export.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Export()
	if err != nil {
		writeError(w, "export", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Import handles POST /api/import.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 256<<20)
	var snap models.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := h.svc.Import(snap); err != nil {
		writeError(w, "import", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ProcessQueue handles POST /api/queue/process.
func (h *Handler) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	if h.proc == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("queue not configured"))
		return
	}
	if err := h.proc.ProcessPending(r.Context()); err != nil {
		writeError(w, "process queue", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
