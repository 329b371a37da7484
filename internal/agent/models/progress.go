package models

import "time"

// SlotFlag is the binary-free projection of a PhotoSlot: the slot identity
// plus whether it had been captured when the snapshot was taken. The flag is
// informational only; resuming a session always resets capture state.
type SlotFlag struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Captured bool   `json:"captured"`
}

// PersistedProgress is the durable, strictly binary-free projection of an
// inspection session, keyed by (mission, inspection type). It never carries
// asset refs or signature bytes.
type PersistedProgress struct {
	MissionID      string         `json:"mission_id"`
	InspectionType InspectionType `json:"inspection_type"`
	Step           int            `json:"step"`

	RequiredSlots []SlotFlag `json:"required_slots"`
	OptionalSlots []SlotFlag `json:"optional_slots"`

	MileageKm    *int64           `json:"mileage_km,omitempty"`
	FuelLevelPct *int             `json:"fuel_level_pct,omitempty"`
	Condition    VehicleCondition `json:"condition,omitempty"`
	Checklist    Checklist        `json:"checklist"`
	Notes        string           `json:"notes,omitempty"`

	ClientName   string `json:"client_name,omitempty"`
	DriverName   string `json:"driver_name,omitempty"`
	ClientSigned bool   `json:"client_signed"`
	DriverSigned bool   `json:"driver_signed"`

	SavedAt time.Time `json:"saved_at"`
}
