// Package remote contains the client-side contract for the backing data
// service: inspection record creation, asset record linking, and the narrow
// mission status update performed after a commit.
//
// Common conditions are exposed as sentinel errors in internal/common that
// callers match with errors.Is: ErrUnavailable, ErrUnauthorized,
// ErrMissionNotClosed.
package remote

import (
	"context"
	"time"

	"convoyinspect/internal/agent/models"
)

// ExpenseRecord is the scalar projection of one expense sent with the
// inspection record. Receipt binaries travel separately as assets.
type ExpenseRecord struct {
	ID          string                 `json:"id"`
	Category    models.ExpenseCategory `json:"category"`
	AmountCents int64                  `json:"amount_cents"`
	Description string                 `json:"description"`
}

// InspectionRecord carries the scalar fields of a finished inspection.
// It deliberately contains no binary data; assets follow after creation.
type InspectionRecord struct {
	MissionID      string                  `json:"mission_id"`
	InspectionType models.InspectionType   `json:"inspection_type"`
	MileageKm      int64                   `json:"mileage_km"`
	FuelLevelPct   int                     `json:"fuel_level_pct"`
	Condition      models.VehicleCondition `json:"condition"`
	Checklist      models.Checklist        `json:"checklist"`
	Notes          string                  `json:"notes,omitempty"`
	ClientName     string                  `json:"client_name"`
	DriverName     string                  `json:"driver_name"`
	Expenses       []ExpenseRecord         `json:"expenses,omitempty"`
	PerformedAt    time.Time               `json:"performed_at"`
}

// AssetRecord links one uploaded object to its inspection.
type AssetRecord struct {
	InspectionID string               `json:"inspection_id"`
	AssetKey     string               `json:"asset_key"`
	Category     models.AssetCategory `json:"category"`
	Kind         string               `json:"kind"`
	URL          string               `json:"url"`
}

// Client is the transport-agnostic API contract of the backing data service.
// All operations accept context.Context and must honor cancellation.
type Client interface {
	// Ping probes connectivity. The commit path calls it first: commit
	// requires connectivity at call time, there is no offline queue.
	Ping(ctx context.Context) error

	// HasCompletedInspection reports whether a completed inspection of the
	// given type already exists for the mission (the session lock check).
	HasCompletedInspection(ctx context.Context, missionID string, t models.InspectionType) (bool, error)

	// CreateInspection creates the inspection record and returns its id.
	CreateInspection(ctx context.Context, rec *InspectionRecord) (string, error)

	// CreateInspectionAsset registers an uploaded asset against an inspection.
	CreateInspectionAsset(ctx context.Context, rec *AssetRecord) error

	// CloseMission flips the parent mission's status after an inspection.
	// Denial by the service is reported as common.ErrMissionNotClosed.
	CloseMission(ctx context.Context, missionID string, t models.InspectionType) error
}
