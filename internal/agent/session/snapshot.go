package session

import "convoyinspect/internal/agent/models"

// Snapshot projects the session into its durable, binary-free form. Asset
// refs and signature bytes never cross this boundary; slots contribute only
// their identity and captured flag.
func (s *Session) Snapshot() *models.PersistedProgress {
	p := &models.PersistedProgress{
		MissionID:      s.missionID,
		InspectionType: s.inspectionType,
		Step:           int(s.step),
		MileageKm:      s.mileageKm,
		FuelLevelPct:   s.fuelLevelPct,
		Condition:      s.condition,
		Checklist:      s.checklist,
		Notes:          s.notes,
		ClientName:     s.clientName,
		DriverName:     s.driverName,
		ClientSigned:   s.clientSig != nil,
		DriverSigned:   s.driverSig != nil,
	}
	p.RequiredSlots = slotFlags(s.required)
	p.OptionalSlots = slotFlags(s.optional)
	return p
}

func slotFlags(list []models.PhotoSlot) []models.SlotFlag {
	out := make([]models.SlotFlag, 0, len(list))
	for _, slot := range list {
		out = append(out, models.SlotFlag{Type: slot.Type, Label: slot.Label, Captured: slot.Captured})
	}
	return out
}

// Resume rebuilds a session from a persisted snapshot.
//
// Scalar fields restore verbatim. Every capture flag resets to false and no
// asset ref is ever set: binary assets cannot be trusted to exist after a
// process restart, so recapture is mandatory. Damage photos, documents and
// expenses restart empty for the same reason, and signatures must be redone.
//
// The resumed step is re-earned, not restored: the session walks forward
// from step 1 toward the saved step, stopping at the first gate that no
// longer passes. Resets mean the photos gate fails until recapture, so a
// snapshot taken at signatures can never re-enter signatures directly and
// commit a photo-less inspection.
func Resume(p *models.PersistedProgress) *Session {
	s := New(p.MissionID, p.InspectionType)

	s.mileageKm = p.MileageKm
	s.fuelLevelPct = p.FuelLevelPct
	s.condition = p.Condition
	s.checklist = p.Checklist
	s.notes = p.Notes
	s.clientName = p.ClientName
	s.driverName = p.DriverName

	target := Step(p.Step)
	if target < StepPhotos || target > StepSignatures {
		target = StepPhotos
	}
	for s.step < target {
		if g := s.CheckAdvance(); !g.OK {
			break
		}
		s.step++
	}

	return s
}
