package progress

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/common"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE progress_snapshots (
  key TEXT PRIMARY KEY,
  payload BLOB NOT NULL,
  saved_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func snapshot(missionID string) *models.PersistedProgress {
	mileage := int64(123456)
	return &models.PersistedProgress{
		MissionID:      missionID,
		InspectionType: models.InspectionDeparture,
		Step:           2,
		MileageKm:      &mileage,
		RequiredSlots: []models.SlotFlag{
			{Type: "front", Label: "Front", Captured: true},
			{Type: "rear", Label: "Rear", Captured: false},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, snapshot("m1")))

	got, err := r.Load(ctx, "m1", models.InspectionDeparture)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "m1", got.MissionID)
	assert.Equal(t, 2, got.Step)
	require.NotNil(t, got.MileageKm)
	assert.Equal(t, int64(123456), *got.MileageKm)
	assert.False(t, got.SavedAt.IsZero())
}

func TestSaveOverwrites(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	first := snapshot("m1")
	require.NoError(t, r.Save(ctx, first))

	second := snapshot("m1")
	second.Step = 3
	require.NoError(t, r.Save(ctx, second))

	got, err := r.Load(ctx, "m1", models.InspectionDeparture)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Step)

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM progress_snapshots`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLoadAbsent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	got, err := r.Load(context.Background(), "nope", models.InspectionArrival)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLoadCorruptDeletesRow(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO progress_snapshots(key, payload, saved_at) VALUES (?, ?, ?)`,
		"progress:m1:departure", []byte("{not json"), time.Now().Unix())
	require.NoError(t, err)

	got, err := r.Load(ctx, "m1", models.InspectionDeparture)
	require.NoError(t, err)
	assert.Nil(t, got)

	var count int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM progress_snapshots`).Scan(&count))
	assert.Equal(t, 0, count)
}

func TestClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, snapshot("m1")))
	require.NoError(t, r.Clear(ctx, "m1", models.InspectionDeparture))

	got, err := r.Load(ctx, "m1", models.InspectionDeparture)
	require.NoError(t, err)
	assert.Nil(t, got)

	// idempotent
	require.NoError(t, r.Clear(ctx, "m1", models.InspectionDeparture))
}

func TestGarbageCollect(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// fresh, valid snapshot stays
	require.NoError(t, r.Save(ctx, snapshot("fresh")))

	// stale snapshot goes
	_, err := db.Exec(`INSERT INTO progress_snapshots(key, payload, saved_at) VALUES (?, ?, ?)`,
		"progress:old:departure", []byte(`{"mission_id":"old"}`), time.Now().Add(-8*24*time.Hour).Unix())
	require.NoError(t, err)

	// corrupt snapshot goes regardless of age
	_, err = db.Exec(`INSERT INTO progress_snapshots(key, payload, saved_at) VALUES (?, ?, ?)`,
		"progress:bad:arrival", []byte("garbage"), time.Now().Unix())
	require.NoError(t, err)

	removed, err := r.GarbageCollect(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	got, err := r.Load(ctx, "fresh", models.InspectionDeparture)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestKeyValidation(t *testing.T) {
	_, err := Key("", models.InspectionDeparture)
	assert.ErrorIs(t, err, common.ErrInvalidKey)

	_, err = Key("m1", models.InspectionType("bogus"))
	assert.ErrorIs(t, err, common.ErrInvalidKey)

	key, err := Key("m1", models.InspectionArrival)
	require.NoError(t, err)
	assert.Equal(t, "progress:m1:arrival", key)
}
