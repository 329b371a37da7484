package progress

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/dbx"
)

// SQLiteRepository implements Repository on the agent's local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository returns a new SQLiteRepository bound to db.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Save upserts the snapshot for its key. SavedAt is stamped here so the
// stored timestamp always reflects the write, not the projection time.
func (r *SQLiteRepository) Save(ctx context.Context, p *models.PersistedProgress) error {
	key, err := Key(p.MissionID, p.InspectionType)
	if err != nil {
		return err
	}

	p.SavedAt = time.Now().UTC()
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `INSERT INTO progress_snapshots (key, payload, saved_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET payload = excluded.payload,
				saved_at = excluded.saved_at
	`
	_, err = r.db.ExecContext(ctx, query, key, payload, p.SavedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot: %w", err)
	}
	return nil
}

// Load returns the snapshot for the key, or nil when absent. A row whose
// payload no longer deserializes is deleted and treated as absent.
func (r *SQLiteRepository) Load(ctx context.Context, missionID string, t models.InspectionType) (*models.PersistedProgress, error) {
	key, err := Key(missionID, t)
	if err != nil {
		return nil, err
	}

	var payload []byte
	row := r.db.QueryRowContext(ctx, `SELECT payload FROM progress_snapshots WHERE key = ?`, key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("query row scan failed: %w", err)
	}

	p := &models.PersistedProgress{}
	if err := json.Unmarshal(payload, p); err != nil {
		// corrupt snapshot: delete, report absent
		_, _ = r.db.ExecContext(ctx, `DELETE FROM progress_snapshots WHERE key = ?`, key)
		return nil, nil
	}
	return p, nil
}

// Clear deletes the snapshot for the key. Absent rows are fine.
func (r *SQLiteRepository) Clear(ctx context.Context, missionID string, t models.InspectionType) error {
	key, err := Key(missionID, t)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM progress_snapshots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// GarbageCollect scans all snapshots, deleting any older than maxAge and any
// whose payload fails to deserialize. Runs in one transaction.
func (r *SQLiteRepository) GarbageCollect(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Unix()
	removed := 0

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		rows, err := tx.QueryContext(ctx, `SELECT key, payload, saved_at FROM progress_snapshots`)
		if err != nil {
			return fmt.Errorf("failed to select snapshots: %w", err)
		}
		defer rows.Close()

		var stale []string
		for rows.Next() {
			var key string
			var payload []byte
			var savedAt int64
			if err := rows.Scan(&key, &payload, &savedAt); err != nil {
				return err
			}
			var p models.PersistedProgress
			if savedAt < cutoff || json.Unmarshal(payload, &p) != nil {
				stale = append(stale, key)
			}
		}
		if err := rows.Err(); err != nil {
			return err
		}

		for _, key := range stale {
			if _, err := tx.ExecContext(ctx, `DELETE FROM progress_snapshots WHERE key = ?`, key); err != nil {
				return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
