// Package progress is the local progress store: best-effort durability for
// form progress across process termination. Snapshots are strictly
// binary-free; asset refs never survive a restart and are never persisted.
package progress

import (
	"context"
	"fmt"
	"time"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/common"
)

// Repository describes snapshot persistence keyed by (mission, inspection
// type). Implementations are backed by the agent's local SQLite database.
//
// Save and Clear are best-effort from the caller's point of view: write
// failures are logged and swallowed upstream, never surfaced to the user.
type Repository interface {
	// Save writes (or overwrites) the snapshot for its key and stamps SavedAt.
	Save(ctx context.Context, p *models.PersistedProgress) error

	// Load returns the most recent snapshot, or nil when none exists.
	// A snapshot that fails to deserialize is deleted and reported as absent.
	Load(ctx context.Context, missionID string, t models.InspectionType) (*models.PersistedProgress, error)

	// Clear deletes the snapshot. Called on successful commit and on an
	// explicit restart-from-scratch. Clearing an absent key is not an error.
	Clear(ctx context.Context, missionID string, t models.InspectionType) error

	// GarbageCollect deletes snapshots older than maxAge or corrupt, and
	// returns how many rows were removed. Run once at process start.
	GarbageCollect(ctx context.Context, maxAge time.Duration) (int, error)
}

// Key derives the store key for a session. Both parts must be non-empty;
// a violation is a programmer error.
func Key(missionID string, t models.InspectionType) (string, error) {
	if missionID == "" || !t.Valid() {
		return "", fmt.Errorf("%w: mission=%q type=%q", common.ErrInvalidKey, missionID, t)
	}
	return fmt.Sprintf("progress:%s:%s", missionID, t), nil
}
