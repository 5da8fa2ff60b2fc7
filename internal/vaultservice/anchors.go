package vaultservice

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/notify"
	"github.com/munin-vault/munin/internal/store"
)

// SaveAnchorRequest creates or updates an anchor. ID empty means create;
// set, it names the anchor being edited.
type SaveAnchorRequest struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title"`
	ArtifactIDs []string `json:"artifactIds"`
}

func (r SaveAnchorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.ArtifactIDs, validation.Required, validation.Length(1, 0)),
	)
}

// AnchorSaveResult is the conflict-as-value outcome of a save attempt.
// Exactly one of Saved and Conflict is set. A conflict is a recoverable
// condition: the caller resolves it with ResolveAnchorConflict or walks
// away (cancel needs no call).
type AnchorSaveResult struct {
	Saved *models.Anchor `json:"saved,omitempty"`

	// Conflict holds the anchor already owning the requested title.
	Conflict *models.Anchor `json:"conflict,omitempty"`

	// TargetID is the anchor a merge or replace should be applied to: the
	// edited anchor when the collision came from an edit, otherwise the
	// pre-existing one.
	TargetID string `json:"targetId,omitempty"`
}

// SaveAnchor validates the request, rejects unresolvable artifact ids
// wholesale, and either persists the anchor or surfaces a title collision
// as a value. It never creates a second anchor with a taken title.
func (s *Service) SaveAnchor(req SaveAnchorRequest) (*AnchorSaveResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if err := s.checkArtifactIDs(req.ArtifactIDs); err != nil {
		return nil, err
	}

	existing, err := s.db.AnchorByTitle(req.Title)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.ID != req.ID {
		target := existing.ID
		if req.ID != "" {
			target = req.ID
		}
		return &AnchorSaveResult{Conflict: existing, TargetID: target}, nil
	}

	var saved *models.Anchor
	if req.ID != "" {
		saved, err = s.db.UpdateAnchor(req.ID, store.AnchorPatch{
			Title:       &req.Title,
			ArtifactIDs: &req.ArtifactIDs,
		})
	} else {
		saved, err = s.db.AddAnchor(models.Anchor{Title: req.Title, ArtifactIDs: req.ArtifactIDs})
	}
	if err != nil {
		return nil, err
	}
	s.log.Info("anchor saved", slog.String("id", saved.ID), slog.String("title", saved.Title))
	s.notify(notify.Info, "Anchor saved", saved.Title)
	s.publish("anchor.saved", saved)
	return &AnchorSaveResult{Saved: saved}, nil
}

// ConflictAction picks how a title collision is resolved.
type ConflictAction string

const (
	ActionMerge   ConflictAction = "merge"
	ActionReplace ConflictAction = "replace"
)

// ResolveAnchorConflict applies the caller's decision to the conflict
// target. Merge unions the target's ids with the new ones, existing first,
// duplicates dropped. Replace swaps the id set wholesale.
func (s *Service) ResolveAnchorConflict(targetID string, action ConflictAction, artifactIDs []string) (*models.Anchor, error) {
	// An anchor always references at least one artifact; a replace with
	// nothing would empty it.
	if len(artifactIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one artifact id is required", apperr.ErrValidation)
	}
	if err := s.checkArtifactIDs(artifactIDs); err != nil {
		return nil, err
	}
	target, err := s.db.GetAnchor(targetID)
	if err != nil {
		return nil, err
	}

	var ids []string
	switch action {
	case ActionMerge:
		ids = mergeIDs(target.ArtifactIDs, artifactIDs)
	case ActionReplace:
		ids = artifactIDs
	default:
		return nil, fmt.Errorf("%w: unknown conflict action %q", apperr.ErrValidation, action)
	}

	saved, err := s.db.UpdateAnchor(targetID, store.AnchorPatch{ArtifactIDs: &ids})
	if err != nil {
		return nil, err
	}
	s.notify(notify.Info, "Anchor updated", saved.Title)
	s.publish("anchor.saved", saved)
	return saved, nil
}

// mergeIDs returns existing ids followed by the new ids not already
// present.
func mergeIDs(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, id := range existing {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	for _, id := range incoming {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// checkArtifactIDs rejects the save when any referenced artifact does not
// exist. No partial saves: the whole request fails with the offending ids.
func (s *Service) checkArtifactIDs(ids []string) error {
	var unknown []string
	for _, id := range ids {
		if _, err := s.db.GetArtifact(id); err != nil {
			unknown = append(unknown, id)
		}
	}
	if len(unknown) > 0 {
		return &apperr.UnknownArtifactsError{IDs: unknown}
	}
	return nil
}

// ToggleAnchorTrashed flips an anchor's trashed flag.
func (s *Service) ToggleAnchorTrashed(id string) (*models.Anchor, error) {
	a, err := s.db.GetAnchor(id)
	if err != nil {
		return nil, err
	}
	trashed := !a.IsTrashed
	saved, err := s.db.UpdateAnchor(id, store.AnchorPatch{IsTrashed: &trashed})
	if err != nil {
		return nil, err
	}
	msg := "Anchor restored"
	if trashed {
		msg = "Anchor moved to trash"
	}
	s.notify(notify.Info, msg, saved.Title)
	s.publish("anchor.saved", saved)
	return saved, nil
}

// DeleteAnchor removes one anchor permanently.
func (s *Service) DeleteAnchor(id string) error {
	if err := s.db.DeleteAnchor(id); err != nil {
		return err
	}
	s.publish("anchor.deleted", id)
	return nil
}
