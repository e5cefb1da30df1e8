package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/aetherforge/internal/document"
	"github.com/roach88/aetherforge/internal/snapshot"
)

// SaveSnapshot journals a snapshot document. The body is stored as
// canonical JSON; saving the same state twice is a silent no-op thanks to
// the (character_id, checksum) idempotency key.
func (s *Store) SaveSnapshot(ctx context.Context, doc document.Object, now time.Time) error {
	characterID, ok := doc["id"].(document.String)
	if !ok {
		return fmt.Errorf("save snapshot: document has no id")
	}
	version, ok := doc["version"].(document.String)
	if !ok {
		return fmt.Errorf("save snapshot: document has no version")
	}

	checksum, err := document.Checksum(doc)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	body, err := document.MarshalCanonical(doc)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(character_id, version, checksum, body, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(character_id, checksum) DO NOTHING
	`,
		string(characterID),
		string(version),
		checksum,
		string(body),
		now.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	return nil
}

// LoadLatest returns the most recently journaled snapshot document for a
// character. Returns ErrNotFound when the character has no snapshots.
func (s *Store) LoadLatest(ctx context.Context, characterID string) (document.Object, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM snapshots
		WHERE character_id = ?
		ORDER BY seq DESC
		LIMIT 1
	`, characterID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load latest %q: %w", characterID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load latest %q: %w", characterID, err)
	}

	return snapshot.DecodeDocument([]byte(body))
}

// LoadVersion returns the most recent journaled snapshot at a specific
// format version. Used to fetch pre-migration bodies for audit.
func (s *Store) LoadVersion(ctx context.Context, characterID, version string) (document.Object, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `
		SELECT body FROM snapshots
		WHERE character_id = ? AND version = ?
		ORDER BY seq DESC
		LIMIT 1
	`, characterID, version).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %q version %s: %w", characterID, version, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q version %s: %w", characterID, version, err)
	}

	return snapshot.DecodeDocument([]byte(body))
}

// AppendPatch journals a patch. Appending the same patch id twice is a
// silent no-op.
func (s *Store) AppendPatch(ctx context.Context, patch snapshot.Patch) error {
	body, err := snapshot.EncodePatch(patch)
	if err != nil {
		return fmt.Errorf("append patch %s: %w", patch.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO patches
		(id, character_id, version, checksum, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		patch.ID,
		patch.CharacterID,
		patch.Version,
		patch.Checksum,
		string(body),
		patch.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("append patch %s: %w", patch.ID, err)
	}

	return nil
}

// ListPatches returns a character's journaled patches in creation order.
func (s *Store) ListPatches(ctx context.Context, characterID string) ([]snapshot.Patch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT body FROM patches
		WHERE character_id = ?
		ORDER BY id
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("list patches %q: %w", characterID, err)
	}
	defer rows.Close()

	var patches []snapshot.Patch
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("list patches %q: %w", characterID, err)
		}
		patch, err := snapshot.DecodePatch([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("list patches %q: %w", characterID, err)
		}
		patches = append(patches, patch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list patches %q: %w", characterID, err)
	}

	return patches, nil
}

// ListCharacters returns the distinct character ids present in the
// journal, ordered lexically.
func (s *Store) ListCharacters(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT character_id FROM snapshots
		ORDER BY character_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list characters: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}

	return ids, nil
}

// SnapshotHistory describes one journaled snapshot row without its body.
type SnapshotHistory struct {
	Seq      int64
	Version  string
	Checksum string
	SavedAt  time.Time
}

// History returns a character's snapshot rows oldest first.
func (s *Store) History(ctx context.Context, characterID string) ([]SnapshotHistory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, version, checksum, saved_at FROM snapshots
		WHERE character_id = ?
		ORDER BY seq
	`, characterID)
	if err != nil {
		return nil, fmt.Errorf("history %q: %w", characterID, err)
	}
	defer rows.Close()

	var entries []SnapshotHistory
	for rows.Next() {
		var entry SnapshotHistory
		var savedAt string
		if err := rows.Scan(&entry.Seq, &entry.Version, &entry.Checksum, &savedAt); err != nil {
			return nil, fmt.Errorf("history %q: %w", characterID, err)
		}
		entry.SavedAt, err = time.Parse(time.RFC3339, savedAt)
		if err != nil {
			return nil, fmt.Errorf("history %q: bad saved_at %q: %w", characterID, savedAt, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history %q: %w", characterID, err)
	}

	return entries, nil
}
