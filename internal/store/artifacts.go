package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/models"
)

// ArtifactPatch holds the fields of a partial artifact update. Nil fields
// are left untouched; a non-nil SpaceID of "" clears the assignment and a
// non-nil Meta replaces the whole bag.
type ArtifactPatch struct {
	Type         *models.ArtifactType
	Title        *string
	Content      *string
	Tags         *[]string
	SpaceID      *string
	Source       *string
	LeadImageURL *string
	IsPinned     *bool
	IsFavorited  *bool
	IsTrashed    *bool
	IsHidden     *bool
	Meta         *models.Meta
}

const artifactCols = `id, type, title, content, tags, space_id, source, lead_image_url,
	created_at, updated_at, pinned, favorited, trashed, hidden, meta`

// AddArtifact inserts a new artifact. A missing id is assigned from the
// current time; timestamps are stamped and flags default to false. The
// caller-supplied id path exists for idempotent import.
func (db *DB) AddArtifact(a models.Artifact) (*models.Artifact, error) {
	now := db.now()
	if a.ID == "" {
		a.ID = models.NewID(now)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	a.Tags = dedupe(a.Tags)
	if err := db.putArtifact(db.conn, a); err != nil {
		return nil, err
	}
	return &a, nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (db *DB) putArtifact(e execer, a models.Artifact) error {
	tagsJSON, _ := json.Marshal(a.Tags)
	meta := ""
	if a.Meta != nil {
		raw, _ := json.Marshal(a.Meta)
		meta = string(raw)
	}
	_, err := e.Exec(`
		INSERT INTO artifacts (`+artifactCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type           = excluded.type,
			title          = excluded.title,
			content        = excluded.content,
			tags           = excluded.tags,
			space_id       = excluded.space_id,
			source         = excluded.source,
			lead_image_url = excluded.lead_image_url,
			created_at     = excluded.created_at,
			updated_at     = excluded.updated_at,
			pinned         = excluded.pinned,
			favorited      = excluded.favorited,
			trashed        = excluded.trashed,
			hidden         = excluded.hidden,
			meta           = excluded.meta
	`, a.ID, string(a.Type), a.Title, a.Content, string(tagsJSON), a.SpaceID,
		a.Source, a.LeadImageURL, millis(a.CreatedAt), millis(a.UpdatedAt),
		boolInt(a.IsPinned), boolInt(a.IsFavorited), boolInt(a.IsTrashed),
		boolInt(a.IsHidden), meta)
	if err != nil {
		return fmt.Errorf("store: put artifact: %w", err)
	}
	return nil
}

// GetArtifact returns one artifact by id.
func (db *DB) GetArtifact(id string) (*models.Artifact, error) {
	row := db.conn.QueryRow(`SELECT `+artifactCols+` FROM artifacts WHERE id = ?`, id)
	a, err := scanArtifact(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get artifact: %w", err)
	}
	return a, nil
}

// UpdateArtifact performs a read-modify-write: the existing record is
// loaded, patch fields are merged in, updated_at is stamped, and the full
// record is replaced. Concurrent updates are last-write-wins.
func (db *DB) UpdateArtifact(id string, p ArtifactPatch) (*models.Artifact, error) {
	a, err := db.GetArtifact(id)
	if err != nil {
		return nil, err
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Content != nil {
		a.Content = *p.Content
	}
	if p.Tags != nil {
		a.Tags = dedupe(*p.Tags)
	}
	if p.SpaceID != nil {
		a.SpaceID = *p.SpaceID
	}
	if p.Source != nil {
		a.Source = *p.Source
	}
	if p.LeadImageURL != nil {
		a.LeadImageURL = *p.LeadImageURL
	}
	if p.IsPinned != nil {
		a.IsPinned = *p.IsPinned
	}
	if p.IsFavorited != nil {
		a.IsFavorited = *p.IsFavorited
	}
	if p.IsTrashed != nil {
		a.IsTrashed = *p.IsTrashed
	}
	if p.IsHidden != nil {
		a.IsHidden = *p.IsHidden
	}
	if p.Meta != nil {
		a.Meta = p.Meta
	}
	a.UpdatedAt = db.now()
	if err := db.putArtifact(db.conn, *a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteArtifact removes one artifact permanently.
func (db *DB) DeleteArtifact(id string) error {
	res, err := db.conn.Exec(`DELETE FROM artifacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete artifact: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteAllArtifacts clears the artifact collection. Anchors and spaces are
// unaffected.
func (db *DB) DeleteAllArtifacts() error {
	if _, err := db.conn.Exec(`DELETE FROM artifacts`); err != nil {
		return fmt.Errorf("store: delete all artifacts: %w", err)
	}
	return nil
}

// ListArtifacts returns every artifact ordered by descending updated_at.
func (db *DB) ListArtifacts() ([]models.Artifact, error) {
	rows, err := db.conn.Query(`SELECT ` + artifactCols + ` FROM artifacts ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list artifacts: %w", err)
	}
	defer rows.Close()
	return collectArtifacts(rows)
}

// ArtifactsBySpace returns the explicit members of a space, via the
// space_id lookup index.
func (db *DB) ArtifactsBySpace(spaceID string) ([]models.Artifact, error) {
	rows, err := db.conn.Query(`SELECT `+artifactCols+` FROM artifacts WHERE space_id = ? ORDER BY updated_at DESC`, spaceID)
	if err != nil {
		return nil, fmt.Errorf("store: artifacts by space: %w", err)
	}
	defer rows.Close()
	return collectArtifacts(rows)
}

// AssignArtifactsToSpace sets space_id on every given artifact in one
// transaction. Missing ids are skipped.
func (db *DB) AssignArtifactsToSpace(ids []string, spaceID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	now := millis(db.now())
	for _, id := range ids {
		if _, err := tx.Exec(`UPDATE artifacts SET space_id = ?, updated_at = ? WHERE id = ?`, spaceID, now, id); err != nil {
			return fmt.Errorf("store: assign artifact: %w", err)
		}
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(r rowScanner) (*models.Artifact, error) {
	var (
		a                        models.Artifact
		typ, tagsJSON, metaJSON  string
		createdMS, updatedMS     int64
		pin, fav, trash, hidden  int
	)
	err := r.Scan(&a.ID, &typ, &a.Title, &a.Content, &tagsJSON, &a.SpaceID,
		&a.Source, &a.LeadImageURL, &createdMS, &updatedMS,
		&pin, &fav, &trash, &hidden, &metaJSON)
	if err != nil {
		return nil, err
	}
	a.Type = models.ArtifactType(typ)
	a.Tags = []string{}
	_ = json.Unmarshal([]byte(tagsJSON), &a.Tags)
	if metaJSON != "" {
		var m models.Meta
		if json.Unmarshal([]byte(metaJSON), &m) == nil {
			a.Meta = &m
		}
	}
	a.CreatedAt = fromMillis(createdMS)
	a.UpdatedAt = fromMillis(updatedMS)
	a.IsPinned = pin != 0
	a.IsFavorited = fav != 0
	a.IsTrashed = trash != 0
	a.IsHidden = hidden != 0
	return &a, nil
}

func collectArtifacts(rows *sql.Rows) ([]models.Artifact, error) {
	var out []models.Artifact
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
