package store

import (
	"fmt"

	"github.com/munin-vault/munin/internal/models"
)

// Export returns the full contents of all three collections.
func (db *DB) Export() (*models.Snapshot, error) {
	artifacts, err := db.ListArtifacts()
	if err != nil {
		return nil, err
	}
	anchors, err := db.ListAnchors()
	if err != nil {
		return nil, err
	}
	spaces, err := db.ListSpaces()
	if err != nil {
		return nil, err
	}
	return &models.Snapshot{Artifacts: artifacts, Anchors: anchors, Spaces: spaces}, nil
}

// Import replaces each collection present in the snapshot wholesale:
// clear, then insert every record as-is (ids and timestamps preserved).
// Collections absent from the snapshot are not disturbed.
func (db *DB) Import(snap models.Snapshot) error {
	if snap.Artifacts != nil {
		tx, err := db.conn.Begin()
		if err != nil {
			return fmt.Errorf("store: begin tx: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM artifacts`); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("store: clear artifacts: %w", err)
		}
		for _, a := range snap.Artifacts {
			if err := db.putArtifact(tx, a); err != nil {
				tx.Rollback() //nolint:errcheck
				return err
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("store: import artifacts: %w", err)
		}
	}
	if snap.Spaces != nil {
		if _, err := db.conn.Exec(`DELETE FROM spaces`); err != nil {
			return fmt.Errorf("store: clear spaces: %w", err)
		}
		for _, s := range snap.Spaces {
			if err := db.putSpace(s); err != nil {
				return err
			}
		}
	}
	if snap.Anchors != nil {
		if _, err := db.conn.Exec(`DELETE FROM anchors`); err != nil {
			return fmt.Errorf("store: clear anchors: %w", err)
		}
		for _, a := range snap.Anchors {
			if err := db.putAnchor(a); err != nil {
				return err
			}
		}
	}
	return nil
}
