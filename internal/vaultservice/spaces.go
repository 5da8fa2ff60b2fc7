package vaultservice

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/notify"
	"github.com/munin-vault/munin/internal/query"
	"github.com/munin-vault/munin/internal/store"
)

// SpaceRequest creates or updates a space.
type SpaceRequest struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	IsSmart bool     `json:"isSmart"`
	Tags    []string `json:"tags"`
}

func (r SpaceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Tags, validation.Required.When(r.IsSmart).Error("a smart space needs at least one tag")),
	)
}

// CreateSpace adds a space.
func (s *Service) CreateSpace(req SpaceRequest) (*models.Space, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	sp, err := s.db.AddSpace(models.Space{
		Name:    req.Name,
		Color:   req.Color,
		IsSmart: req.IsSmart,
		Tags:    req.Tags,
	})
	if err != nil {
		return nil, err
	}
	s.publish("space.created", sp)
	return sp, nil
}

// UpdateSpace applies a partial space update.
func (s *Service) UpdateSpace(id string, p store.SpacePatch) (*models.Space, error) {
	sp, err := s.db.UpdateSpace(id, p)
	if err != nil {
		return nil, err
	}
	s.publish("space.updated", sp)
	return sp, nil
}

// DeleteSpace removes the space after clearing every member's assignment.
// The cascade and the delete run in one transaction so no reader observes a
// dangling space id.
func (s *Service) DeleteSpace(id string) error {
	sp, err := s.db.GetSpace(id)
	if err != nil {
		return err
	}
	if err := s.db.DeleteSpace(id); err != nil {
		return err
	}
	s.notify(notify.Info, "Space deleted", sp.Name)
	s.publish("space.deleted", id)
	return nil
}

// AssignToSpace sets the space assignment on a batch of artifacts. An empty
// spaceID unassigns them.
func (s *Service) AssignToSpace(ids []string, spaceID string) error {
	if spaceID != "" {
		if _, err := s.db.GetSpace(spaceID); err != nil {
			return err
		}
	}
	if err := s.db.AssignArtifactsToSpace(ids, spaceID); err != nil {
		return err
	}
	s.publish("artifacts.assigned", spaceID)
	return nil
}

// SpaceArtifacts returns a space's members: the explicit assignments for a
// regular space, the computed tag intersection for a smart one. Smart
// membership is never stored, only derived here at read time.
func (s *Service) SpaceArtifacts(id string) ([]models.Artifact, error) {
	sp, err := s.db.GetSpace(id)
	if err != nil {
		return nil, err
	}
	pool, err := s.db.ListArtifacts()
	if err != nil {
		return nil, err
	}
	return query.Artifacts(pool, sp, "", nil), nil
}
