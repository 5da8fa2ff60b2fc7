package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/munin-vault/munin/internal/queue"
	"github.com/munin-vault/munin/internal/vaultservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// proc, if non-nil, backs the on-demand queue sweep.
func NewRouter(svc *vaultservice.Service, proc *queue.Processor, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, proc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Capture.
	r.Post("/capture", h.Capture)
	r.Post("/capture/file", h.CaptureFile)
	r.Get("/drafts/{session}", h.GetDraft)
	r.Put("/drafts/{session}", h.SaveDraft)
	r.Delete("/drafts/{session}", h.ClearDraft)

	// Artifacts.
	r.Get("/artifacts", h.ListArtifacts)
	r.Get("/artifacts/{id}", h.GetArtifact)
	r.Patch("/artifacts/{id}", h.UpdateArtifact)
	r.Delete("/artifacts/{id}", h.DeleteArtifact)
	r.Post("/artifacts/{id}/toggle/{flag}", h.ToggleArtifact)
	r.Post("/artifacts/assign", h.AssignToSpace)
	r.Post("/artifacts/detonate", h.Detonate)
	r.Post("/trash/empty", h.EmptyTrash)

	// Anchors.
	r.Get("/anchors", h.ListAnchors)
	r.Post("/anchors", h.SaveAnchor)
	r.Post("/anchors/{id}/resolve", h.ResolveAnchorConflict)
	r.Post("/anchors/{id}/toggle", h.ToggleAnchorTrashed)
	r.Delete("/anchors/{id}", h.DeleteAnchor)

	// Spaces.
	r.Get("/spaces", h.ListSpaces)
	r.Post("/spaces", h.CreateSpace)
	r.Patch("/spaces/{id}", h.UpdateSpace)
	r.Delete("/spaces/{id}", h.DeleteSpace)
	r.Get("/spaces/{id}/artifacts", h.SpaceArtifacts)

	// Snapshot.
	r.Get("/export", h.Export)
	r.Post("/import", h.Import)

	// Offline enrichment queue, kicked by the client's "back online" signal.
	r.Post("/queue/process", h.ProcessQueue)

	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
