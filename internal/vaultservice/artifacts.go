package vaultservice

import (
	"fmt"
	"log/slog"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/notify"
	"github.com/munin-vault/munin/internal/store"
	"github.com/munin-vault/munin/internal/wikilink"
)

// Flag names an artifact boolean toggle.
type Flag string

const (
	FlagPinned    Flag = "pinned"
	FlagFavorited Flag = "favorited"
	FlagTrashed   Flag = "trashed"
	FlagHidden    Flag = "hidden"
)

// Artifact returns one artifact by id.
func (s *Service) Artifact(id string) (*models.Artifact, error) {
	return s.db.GetArtifact(id)
}

// EditableArtifact returns the artifact with its content rewritten to the
// editor-facing wiki-link form.
func (s *Service) EditableArtifact(id string) (*models.Artifact, error) {
	a, err := s.db.GetArtifact(id)
	if err != nil {
		return nil, err
	}
	a.Content = wikilink.ToEditable(a.Content)
	return a, nil
}

// UpdateArtifact applies a partial update. Incoming content is passed
// through the wiki-link save transform so repeated edit/save cycles stay
// stable.
func (s *Service) UpdateArtifact(id string, p store.ArtifactPatch) (*models.Artifact, error) {
	if p.Content != nil {
		stored := wikilink.ToStored(*p.Content)
		p.Content = &stored
	}
	a, err := s.db.UpdateArtifact(id, p)
	if err != nil {
		return nil, err
	}
	s.publish("artifact.updated", a)
	return a, nil
}

// DeleteArtifact removes one artifact permanently.
func (s *Service) DeleteArtifact(id string) error {
	if err := s.db.DeleteArtifact(id); err != nil {
		return err
	}
	s.publish("artifact.deleted", id)
	return nil
}

// ToggleArtifact flips one boolean flag and reports the new state with a
// human-readable notification.
func (s *Service) ToggleArtifact(id string, flag Flag) (*models.Artifact, error) {
	a, err := s.db.GetArtifact(id)
	if err != nil {
		return nil, err
	}

	var p store.ArtifactPatch
	var on bool
	switch flag {
	case FlagPinned:
		on = !a.IsPinned
		p.IsPinned = &on
	case FlagFavorited:
		on = !a.IsFavorited
		p.IsFavorited = &on
	case FlagTrashed:
		on = !a.IsTrashed
		p.IsTrashed = &on
	case FlagHidden:
		on = !a.IsHidden
		p.IsHidden = &on
	default:
		return nil, fmt.Errorf("%w: unknown flag %q", apperr.ErrValidation, flag)
	}

	a, err = s.db.UpdateArtifact(id, p)
	if err != nil {
		return nil, err
	}
	s.notify(notify.Info, toggleMessage(flag, on), a.Title)
	s.publish("artifact.updated", a)
	return a, nil
}

func toggleMessage(flag Flag, on bool) string {
	switch flag {
	case FlagPinned:
		if on {
			return "Pinned"
		}
		return "Unpinned"
	case FlagFavorited:
		if on {
			return "Added to favorites"
		}
		return "Removed from favorites"
	case FlagTrashed:
		if on {
			return "Moved to trash"
		}
		return "Restored from trash"
	case FlagHidden:
		if on {
			return "Hidden"
		}
		return "Unhidden"
	}
	return string(flag)
}

// Detonate irreversibly deletes every artifact. Anchors and spaces are
// untouched.
func (s *Service) Detonate() error {
	if err := s.db.DeleteAllArtifacts(); err != nil {
		return err
	}
	s.log.Warn("all artifacts deleted")
	s.notify(notify.Info, "Detonated", "All artifacts were deleted.")
	s.publish("artifacts.detonated", nil)
	return nil
}

// EmptyTrash permanently deletes every trashed artifact and anchor.
func (s *Service) EmptyTrash() error {
	artifacts, err := s.db.ListArtifacts()
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		if !a.IsTrashed {
			continue
		}
		if err := s.db.DeleteArtifact(a.ID); err != nil {
			return err
		}
	}
	anchors, err := s.db.ListAnchors()
	if err != nil {
		return err
	}
	for _, an := range anchors {
		if !an.IsTrashed {
			continue
		}
		if err := s.db.DeleteAnchor(an.ID); err != nil {
			return err
		}
	}
	s.notify(notify.Info, "Trash emptied", "")
	s.publish("trash.emptied", nil)
	return nil
}

// Export snapshots all three collections.
func (s *Service) Export() (*models.Snapshot, error) {
	return s.db.Export()
}

// Import replaces the store contents per included entity kind.
func (s *Service) Import(snap models.Snapshot) error {
	if err := s.db.Import(snap); err != nil {
		return err
	}
	s.log.Info("snapshot imported",
		slog.Int("artifacts", len(snap.Artifacts)),
		slog.Int("spaces", len(snap.Spaces)),
		slog.Int("anchors", len(snap.Anchors)))
	s.publish("snapshot.imported", nil)
	return nil
}
