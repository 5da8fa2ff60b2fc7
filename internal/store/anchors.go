package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/models"
)

// AnchorPatch holds the fields of a partial anchor update.
type AnchorPatch struct {
	Title       *string
	ArtifactIDs *[]string
	IsTrashed   *bool
}

const anchorCols = `id, title, artifact_ids, created_at, updated_at, trashed`

// AddAnchor inserts a new anchor. Title uniqueness is the caller's problem:
// the service probes AnchorByTitle first and surfaces collisions as a
// conflict value, so a UNIQUE violation here is a hard failure.
func (db *DB) AddAnchor(a models.Anchor) (*models.Anchor, error) {
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
	a.ArtifactIDs = dedupe(a.ArtifactIDs)
	if err := db.putAnchor(a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *DB) putAnchor(a models.Anchor) error {
	idsJSON, _ := json.Marshal(a.ArtifactIDs)
	_, err := db.conn.Exec(`
		INSERT INTO anchors (`+anchorCols+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title        = excluded.title,
			artifact_ids = excluded.artifact_ids,
			created_at   = excluded.created_at,
			updated_at   = excluded.updated_at,
			trashed      = excluded.trashed
	`, a.ID, a.Title, string(idsJSON), millis(a.CreatedAt), millis(a.UpdatedAt), boolInt(a.IsTrashed))
	if err != nil {
		return fmt.Errorf("store: put anchor: %w", err)
	}
	return nil
}

// GetAnchor returns one anchor by id.
func (db *DB) GetAnchor(id string) (*models.Anchor, error) {
	row := db.conn.QueryRow(`SELECT `+anchorCols+` FROM anchors WHERE id = ?`, id)
	a, err := scanAnchor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get anchor: %w", err)
	}
	return a, nil
}

// AnchorByTitle looks an anchor up by exact title, trashed or not. A nil
// result with nil error means no anchor holds that title.
func (db *DB) AnchorByTitle(title string) (*models.Anchor, error) {
	row := db.conn.QueryRow(`SELECT `+anchorCols+` FROM anchors WHERE title = ?`, title)
	a, err := scanAnchor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: anchor by title: %w", err)
	}
	return a, nil
}

// UpdateAnchor performs a read-modify-write with updated_at stamping.
func (db *DB) UpdateAnchor(id string, p AnchorPatch) (*models.Anchor, error) {
	a, err := db.GetAnchor(id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.ArtifactIDs != nil {
		a.ArtifactIDs = dedupe(*p.ArtifactIDs)
	}
	if p.IsTrashed != nil {
		a.IsTrashed = *p.IsTrashed
	}
	a.UpdatedAt = db.now()
	if err := db.putAnchor(*a); err != nil {
		return nil, err
	}
	return a, nil
}

// DeleteAnchor removes one anchor permanently.
func (db *DB) DeleteAnchor(id string) error {
	res, err := db.conn.Exec(`DELETE FROM anchors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete anchor: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// ListAnchors returns every anchor ordered by descending updated_at.
func (db *DB) ListAnchors() ([]models.Anchor, error) {
	rows, err := db.conn.Query(`SELECT ` + anchorCols + ` FROM anchors ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list anchors: %w", err)
	}
	defer rows.Close()
	var out []models.Anchor
	for rows.Next() {
		a, err := scanAnchor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func scanAnchor(r rowScanner) (*models.Anchor, error) {
	var (
		a                    models.Anchor
		idsJSON              string
		createdMS, updatedMS int64
		trashed              int
	)
	if err := r.Scan(&a.ID, &a.Title, &idsJSON, &createdMS, &updatedMS, &trashed); err != nil {
		return nil, err
	}
	a.ArtifactIDs = []string{}
	_ = json.Unmarshal([]byte(idsJSON), &a.ArtifactIDs)
	a.CreatedAt = fromMillis(createdMS)
	a.UpdatedAt = fromMillis(updatedMS)
	a.IsTrashed = trashed != 0
	return &a, nil
}
