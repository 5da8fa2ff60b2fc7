// Package query is the pure filter/sort engine. It operates on in-memory
// snapshots of the entity collections and performs no I/O, so every
// function here is trivially testable and safe to call from any surface.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/munin-vault/munin/internal/daterange"
	"github.com/munin-vault/munin/internal/models"
)

// Visibility keywords. An exact match switches the view instead of being
// treated as search text.
const (
	keywordTrash  = "trash"
	keywordHidden = `\show`
)

// favoriteTokens match the favorited flag instead of record text.
var favoriteTokens = map[string]bool{"favorites": true, "fav": true}

// Artifacts applies base-pool selection, visibility, keyword search, the
// optional created-at range, and the pinned-first ordering. The input slice
// is not modified.
func Artifacts(pool []models.Artifact, active *models.Space, search string, r *daterange.Range) []models.Artifact {
	out := make([]models.Artifact, 0, len(pool))
	for _, a := range pool {
		if inPool(a, active) {
			out = append(out, a)
		}
	}

	out = applyVisibility(out, search)

	if r != nil {
		kept := out[:0]
		for _, a := range out {
			if r.Contains(a.CreatedAt) {
				kept = append(kept, a)
			}
		}
		out = kept
	}

	sortArtifacts(out)
	return out
}

func inPool(a models.Artifact, active *models.Space) bool {
	if active == nil {
		return true
	}
	// A smart space with no tags falls back to explicit membership.
	if active.IsSmart && len(active.Tags) > 0 {
		return tagsIntersect(a.Tags, active.Tags)
	}
	return a.SpaceID == active.ID
}

func tagsIntersect(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func applyVisibility(pool []models.Artifact, search string) []models.Artifact {
	q := strings.TrimSpace(search)

	// Visibility keywords take priority over substring search.
	switch strings.ToLower(q) {
	case keywordTrash:
		return filterArtifacts(pool, func(a models.Artifact) bool { return a.IsTrashed })
	case keywordHidden:
		return filterArtifacts(pool, func(a models.Artifact) bool { return a.IsHidden })
	}

	pool = filterArtifacts(pool, func(a models.Artifact) bool {
		return !a.IsTrashed && !a.IsHidden
	})
	if q == "" {
		return pool
	}
	return filterArtifacts(pool, matcher(q))
}

// matcher picks the search mode for a non-keyword query: id prefix for long
// numeric strings, flag match for the favorite tokens, exact type name, and
// otherwise a case-insensitive substring scan over title, content and tags.
func matcher(q string) func(models.Artifact) bool {
	if isIDPrefix(q) {
		return func(a models.Artifact) bool { return strings.HasPrefix(a.ID, q) }
	}
	lower := strings.ToLower(q)
	if favoriteTokens[lower] {
		return func(a models.Artifact) bool { return a.IsFavorited }
	}
	if models.ValidType(lower) {
		return func(a models.Artifact) bool { return a.Type == models.ArtifactType(lower) }
	}
	return func(a models.Artifact) bool {
		if strings.Contains(strings.ToLower(a.Title), lower) ||
			strings.Contains(strings.ToLower(a.Content), lower) {
			return true
		}
		for _, tag := range a.Tags {
			if strings.Contains(strings.ToLower(tag), lower) {
				return true
			}
		}
		return false
	}
}

// isIDPrefix reports whether q is all digits and long enough to be a
// meaningful id prefix. Short numbers stay substring searches.
func isIDPrefix(q string) bool {
	if len(q) < 4 {
		return false
	}
	for _, r := range q {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func filterArtifacts(pool []models.Artifact, keep func(models.Artifact) bool) []models.Artifact {
	out := make([]models.Artifact, 0, len(pool))
	for _, a := range pool {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

func sortArtifacts(pool []models.Artifact) {
	sort.SliceStable(pool, func(i, j int) bool {
		if pool[i].IsPinned != pool[j].IsPinned {
			return pool[i].IsPinned
		}
		return pool[i].UpdatedAt.After(pool[j].UpdatedAt)
	})
}

// Anchors applies the trash/default visibility split and keyword search,
// then sorts by title ascending, case-insensitive.
func Anchors(pool []models.Anchor, search string) []models.Anchor {
	q := strings.TrimSpace(search)
	trashOnly := strings.EqualFold(q, keywordTrash)

	out := make([]models.Anchor, 0, len(pool))
	for _, an := range pool {
		if an.IsTrashed != trashOnly {
			continue
		}
		if !trashOnly && q != "" && !anchorMatches(an, q) {
			continue
		}
		out = append(out, an)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Title) < strings.ToLower(out[j].Title)
	})
	return out
}

func anchorMatches(an models.Anchor, q string) bool {
	if strings.Contains(strings.ToLower(an.Title), strings.ToLower(q)) {
		return true
	}
	for _, id := range an.ArtifactIDs {
		if strings.Contains(id, q) {
			return true
		}
	}
	return false
}

// Spaces filters by case-insensitive name substring. Empty search returns
// the pool unchanged.
func Spaces(pool []models.Space, search string) []models.Space {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return pool
	}
	out := make([]models.Space, 0, len(pool))
	for _, s := range pool {
		if strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// ResolveRange turns a free-text date expression into a concrete range
// using the first recognised pattern that yields one. nil means no usable
// range, which callers ignore silently.
func ResolveRange(text string, now time.Time) *daterange.Range {
	for _, p := range daterange.Matches(text) {
		if r, ok := p.Range(now); ok {
			return &r
		}
	}
	return nil
}
