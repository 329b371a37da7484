package session

import "convoyinspect/internal/agent/models"

// SlotView is the render-facing shape of one photo slot.
type SlotView struct {
	Type     string `json:"type"`
	Label    string `json:"label"`
	Captured bool   `json:"captured"`
}

// DocumentView summarizes a scanned document for rendering.
type DocumentView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Pages     int    `json:"pages"`
	RemoteURL string `json:"remote_url,omitempty"`
}

// ExpenseView summarizes one expense for rendering.
type ExpenseView struct {
	ID          string                 `json:"id"`
	Category    models.ExpenseCategory `json:"category"`
	AmountCents int64                  `json:"amount_cents"`
	Description string                 `json:"description"`
	HasReceipt  bool                   `json:"has_receipt"`
}

// View is the read-only projection the UI layer renders from. It carries no
// binary data and no internal pointers.
type View struct {
	MissionID      string                  `json:"mission_id"`
	InspectionType models.InspectionType   `json:"inspection_type"`
	Step           int                     `json:"step"`
	StepName       string                  `json:"step_name"`
	RequiredSlots  []SlotView              `json:"required_slots"`
	OptionalSlots  []SlotView              `json:"optional_slots"`
	DamagePhotos   int                     `json:"damage_photos"`
	Documents      []DocumentView          `json:"documents"`
	Expenses       []ExpenseView           `json:"expenses"`
	MileageKm      *int64                  `json:"mileage_km,omitempty"`
	FuelLevelPct   *int                    `json:"fuel_level_pct,omitempty"`
	Condition      models.VehicleCondition `json:"condition,omitempty"`
	Checklist      models.Checklist        `json:"checklist"`
	Notes          string                  `json:"notes,omitempty"`
	ClientName     string                  `json:"client_name,omitempty"`
	DriverName     string                  `json:"driver_name,omitempty"`
	ClientSigned   bool                    `json:"client_signed"`
	DriverSigned   bool                    `json:"driver_signed"`
	Gate           GateView                `json:"gate"`
}

// GateView mirrors the current step's gate so the UI can enable or disable
// its Next control without a round trip.
type GateView struct {
	CanAdvance bool   `json:"can_advance"`
	Reason     string `json:"reason,omitempty"`
}

// View builds the current render projection.
func (s *Session) View() View {
	g := s.CheckAdvance()

	v := View{
		MissionID:      s.missionID,
		InspectionType: s.inspectionType,
		Step:           int(s.step),
		StepName:       s.step.String(),
		DamagePhotos:   len(s.damage),
		MileageKm:      s.mileageKm,
		FuelLevelPct:   s.fuelLevelPct,
		Condition:      s.condition,
		Checklist:      s.checklist,
		Notes:          s.notes,
		ClientName:     s.clientName,
		DriverName:     s.driverName,
		ClientSigned:   s.clientSig != nil,
		DriverSigned:   s.driverSig != nil,
		Gate:           GateView{CanAdvance: g.OK, Reason: g.Reason},
	}

	for _, slot := range s.required {
		v.RequiredSlots = append(v.RequiredSlots, SlotView{Type: slot.Type, Label: slot.Label, Captured: slot.Captured})
	}
	for _, slot := range s.optional {
		v.OptionalSlots = append(v.OptionalSlots, SlotView{Type: slot.Type, Label: slot.Label, Captured: slot.Captured})
	}
	for _, doc := range s.documents {
		v.Documents = append(v.Documents, DocumentView{ID: doc.ID, Title: doc.Title, Pages: len(doc.Pages), RemoteURL: doc.RemoteURL})
	}
	for _, e := range s.expenses {
		v.Expenses = append(v.Expenses, ExpenseView{
			ID:          e.ID,
			Category:    e.Category,
			AmountCents: e.AmountCents,
			Description: e.Description,
			HasReceipt:  e.Receipt != nil,
		})
	}

	return v
}

// Expenses returns a copy of the recorded expenses.
func (s *Session) Expenses() []models.Expense {
	out := make([]models.Expense, len(s.expenses))
	copy(out, s.expenses)
	return out
}

// Scalars bundles the validated scalar fields for record creation. Callers
// must only use it after the signatures gate has passed.
type Scalars struct {
	MileageKm    int64
	FuelLevelPct int
	Condition    models.VehicleCondition
	Checklist    models.Checklist
	Notes        string
	ClientName   string
	DriverName   string
}

// Scalars returns the scalar form fields. Zero values stand in for unset
// optional fields.
func (s *Session) Scalars() Scalars {
	sc := Scalars{
		Condition:  s.condition,
		Checklist:  s.checklist,
		Notes:      s.notes,
		ClientName: s.clientName,
		DriverName: s.driverName,
	}
	if s.mileageKm != nil {
		sc.MileageKm = *s.mileageKm
	}
	if s.fuelLevelPct != nil {
		sc.FuelLevelPct = *s.fuelLevelPct
	}
	return sc
}
