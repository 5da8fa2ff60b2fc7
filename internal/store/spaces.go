package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/munin-vault/munin/internal/apperr"
	"github.com/munin-vault/munin/internal/models"
)

// SpacePatch holds the fields of a partial space update.
type SpacePatch struct {
	Name    *string
	Color   *string
	IsSmart *bool
	Tags    *[]string
}

const spaceCols = `id, name, color, smart, tags, created_at, updated_at`

// AddSpace inserts a new space.
func (db *DB) AddSpace(s models.Space) (*models.Space, error) {
	now := db.now()
	if s.ID == "" {
		s.ID = models.NewID(now)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	if err := db.putSpace(s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (db *DB) putSpace(s models.Space) error {
	tagsJSON, _ := json.Marshal(s.Tags)
	_, err := db.conn.Exec(`
		INSERT INTO spaces (`+spaceCols+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			color      = excluded.color,
			smart      = excluded.smart,
			tags       = excluded.tags,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`, s.ID, s.Name, s.Color, boolInt(s.IsSmart), string(tagsJSON), millis(s.CreatedAt), millis(s.UpdatedAt))
	if err != nil {
		return fmt.Errorf("store: put space: %w", err)
	}
	return nil
}

// GetSpace returns one space by id.
func (db *DB) GetSpace(id string) (*models.Space, error) {
	row := db.conn.QueryRow(`SELECT `+spaceCols+` FROM spaces WHERE id = ?`, id)
	s, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get space: %w", err)
	}
	return s, nil
}

// UpdateSpace performs a read-modify-write with updated_at stamping.
func (db *DB) UpdateSpace(id string, p SpacePatch) (*models.Space, error) {
	s, err := db.GetSpace(id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Color != nil {
		s.Color = *p.Color
	}
	if p.IsSmart != nil {
		s.IsSmart = *p.IsSmart
	}
	if p.Tags != nil {
		s.Tags = dedupe(*p.Tags)
	}
	s.UpdatedAt = db.now()
	if err := db.putSpace(*s); err != nil {
		return nil, err
	}
	return s, nil
}

// DeleteSpace removes a space after clearing space_id on every artifact
// that references it. Both steps run in one transaction so no reader ever
// observes an artifact pointing at a space that is gone.
func (db *DB) DeleteSpace(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := millis(db.now())
	if _, err := tx.Exec(`UPDATE artifacts SET space_id = '', updated_at = ? WHERE space_id = ?`, now, id); err != nil {
		return fmt.Errorf("store: detach artifacts: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM spaces WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete space: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}

// ListSpaces returns every space ordered by descending updated_at.
func (db *DB) ListSpaces() ([]models.Space, error) {
	rows, err := db.conn.Query(`SELECT ` + spaceCols + ` FROM spaces ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list spaces: %w", err)
	}
	defer rows.Close()
	var out []models.Space
	for rows.Next() {
		s, err := scanSpace(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}

func scanSpace(r rowScanner) (*models.Space, error) {
	var (
		s                    models.Space
		smart                int
		tagsJSON             string
		createdMS, updatedMS int64
	)
	if err := r.Scan(&s.ID, &s.Name, &s.Color, &smart, &tagsJSON, &createdMS, &updatedMS); err != nil {
		return nil, err
	}
	s.IsSmart = smart != 0
	s.Tags = nil
	_ = json.Unmarshal([]byte(tagsJSON), &s.Tags)
	s.CreatedAt = fromMillis(createdMS)
	s.UpdatedAt = fromMillis(updatedMS)
	return &s, nil
}
