package vaultservice

import (
	"time"

	"github.com/munin-vault/munin/internal/models"
	"github.com/munin-vault/munin/internal/query"
)

// SearchRequest narrows the artifact listing. Query may be a visibility
// keyword, a type name, an id prefix, or free text; RangeText is a natural
// language date expression resolved independently of Query.
type SearchRequest struct {
	Query     string
	SpaceID   string
	RangeText string

	// Now overrides the reference time for relative date expressions.
	Now time.Time
}

// SearchArtifacts runs the filter/sort engine over the current store
// contents.
func (s *Service) SearchArtifacts(req SearchRequest) ([]models.Artifact, error) {
	pool, err := s.db.ListArtifacts()
	if err != nil {
		return nil, err
	}

	var active *models.Space
	if req.SpaceID != "" {
		active, err = s.db.GetSpace(req.SpaceID)
		if err != nil {
			return nil, err
		}
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	r := query.ResolveRange(req.RangeText, now)

	return query.Artifacts(pool, active, req.Query, r), nil
}

// SearchAnchors filters and orders the anchor listing.
func (s *Service) SearchAnchors(q string) ([]models.Anchor, error) {
	pool, err := s.db.ListAnchors()
	if err != nil {
		return nil, err
	}
	return query.Anchors(pool, q), nil
}

// SearchSpaces filters the space listing by name.
func (s *Service) SearchSpaces(q string) ([]models.Space, error) {
	pool, err := s.db.ListSpaces()
	if err != nil {
		return nil, err
	}
	return query.Spaces(pool, q), nil
}
