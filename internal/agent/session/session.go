// Package session owns the in-memory state of one inspection capture session
// and the step machine that gates progress through it.
//
// A session moves forward through four steps (photos, details, conditions or
// expenses, signatures), then into Committing and Done. Forward transitions
// are gated on completeness; backward transitions are unconditional and never
// discard entered data. The session is mutated only in response to discrete
// UI events, by a single caller at a time.
package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/agent/slots"
)

// Step is the session's position in the capture flow.
type Step int

const (
	StepPhotos Step = iota + 1
	StepDetails
	StepConditions
	StepSignatures
	StepCommitting
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepPhotos:
		return "photos"
	case StepDetails:
		return "details"
	case StepConditions:
		return "conditions"
	case StepSignatures:
		return "signatures"
	case StepCommitting:
		return "committing"
	case StepDone:
		return "done"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Session is the exclusive owner of one inspection's in-flight state.
type Session struct {
	missionID      string
	inspectionType models.InspectionType

	step Step

	required []models.PhotoSlot
	optional []models.PhotoSlot
	damage   []models.PhotoSlot

	documents []models.ScannedDocument
	expenses  []models.Expense

	mileageKm    *int64
	fuelLevelPct *int
	condition    models.VehicleCondition
	checklist    models.Checklist
	notes        string

	clientName string
	driverName string
	clientSig  *models.Signature
	driverSig  *models.Signature

	// onChange fires after every mutating event; the service layer hooks the
	// debounced autosave here.
	onChange func()
}

// New creates a fresh session at step 1 with the slot catalog for the type.
func New(missionID string, t models.InspectionType) *Session {
	return &Session{
		missionID:      missionID,
		inspectionType: t,
		step:           StepPhotos,
		required:       slots.Required(t),
		optional:       slots.Optional(t),
	}
}

// SetOnChange registers the mutation hook. Pass nil to detach.
func (s *Session) SetOnChange(fn func()) { s.onChange = fn }

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Session) MissionID() string { return s.missionID }

func (s *Session) InspectionType() models.InspectionType { return s.inspectionType }

func (s *Session) Step() Step { return s.step }

// Next advances one step when the current step's gate passes. The returned
// gate carries the human-readable reason when blocked; the step is left
// unchanged in that case.
func (s *Session) Next() Gate {
	if s.step < StepPhotos || s.step >= StepSignatures {
		return Gate{Reason: fmt.Sprintf("cannot advance from %s", s.step)}
	}
	g := s.CheckAdvance()
	if !g.OK {
		return g
	}
	s.step++
	s.changed()
	return g
}

// Back moves one step backward. Unconditional; entered data is kept.
func (s *Session) Back() {
	if s.step > StepPhotos && s.step <= StepSignatures {
		s.step--
		s.changed()
	}
}

// BeginCommit validates the terminal gate one last time and moves the
// session into Committing. On a blocked gate the step is unchanged.
func (s *Session) BeginCommit() Gate {
	if s.step != StepSignatures {
		return Gate{Reason: fmt.Sprintf("commit is only possible from the signatures step, not %s", s.step)}
	}
	g := s.CheckAdvance()
	if !g.OK {
		return g
	}
	s.step = StepCommitting
	return g
}

// FailCommit returns the session to the signatures step with all data
// intact, so the user can retry.
func (s *Session) FailCommit() {
	if s.step == StepCommitting {
		s.step = StepSignatures
	}
}

// FinishCommit marks the session done. Called once the inspection record
// exists remotely, regardless of asset or mission-update outcomes.
func (s *Session) FinishCommit() {
	s.step = StepDone
}

// CaptureRequired fills a required photo slot with a freshly captured asset.
func (s *Session) CaptureRequired(slotType string, ref *models.AssetRef) error {
	return s.fillSlot(s.required, slotType, ref)
}

// CaptureOptional fills an optional photo slot.
func (s *Session) CaptureOptional(slotType string, ref *models.AssetRef) error {
	return s.fillSlot(s.optional, slotType, ref)
}

func (s *Session) fillSlot(list []models.PhotoSlot, slotType string, ref *models.AssetRef) error {
	for i := range list {
		if list[i].Type == slotType {
			list[i].Asset = ref
			list[i].Captured = ref != nil
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("unknown photo slot %q", slotType)
}

// AddDamagePhoto appends a damage photo with a free-form label.
func (s *Session) AddDamagePhoto(label string, ref *models.AssetRef) {
	s.damage = append(s.damage, models.PhotoSlot{
		Type:     "damage",
		Label:    label,
		Asset:    ref,
		Captured: ref != nil,
	})
	s.changed()
}

// AddDocument starts a new scanned document and returns its id.
func (s *Session) AddDocument(title string) string {
	doc := models.ScannedDocument{ID: uuid.NewString(), Title: title}
	s.documents = append(s.documents, doc)
	s.changed()
	return doc.ID
}

// AddDocumentPage appends a scanned page to an existing document.
func (s *Session) AddDocumentPage(docID string, ref models.AssetRef) error {
	for i := range s.documents {
		if s.documents[i].ID == docID {
			s.documents[i].Pages = append(s.documents[i].Pages, ref)
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("unknown document %q", docID)
}

// SetDocumentRemoteURL records the best-effort early-save URL of a document.
func (s *Session) SetDocumentRemoteURL(docID, url string) {
	for i := range s.documents {
		if s.documents[i].ID == docID {
			s.documents[i].RemoteURL = url
			return
		}
	}
}

// RemoveDocument deletes a document and its pages from the session.
func (s *Session) RemoveDocument(docID string) error {
	for i := range s.documents {
		if s.documents[i].ID == docID {
			s.documents = append(s.documents[:i], s.documents[i+1:]...)
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("unknown document %q", docID)
}

// AddExpense records a mission expense and returns its id.
func (s *Session) AddExpense(category models.ExpenseCategory, amountCents int64, description string) (string, error) {
	if amountCents <= 0 {
		return "", fmt.Errorf("expense amount must be positive")
	}
	e := models.Expense{
		ID:          uuid.NewString(),
		Category:    category,
		AmountCents: amountCents,
		Description: description,
	}
	s.expenses = append(s.expenses, e)
	s.changed()
	return e.ID, nil
}

// RemoveExpense deletes an expense.
func (s *Session) RemoveExpense(id string) error {
	for i := range s.expenses {
		if s.expenses[i].ID == id {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("unknown expense %q", id)
}

// AttachReceipt links a captured receipt photo to an expense.
func (s *Session) AttachReceipt(expenseID string, ref *models.AssetRef) error {
	for i := range s.expenses {
		if s.expenses[i].ID == expenseID {
			s.expenses[i].Receipt = ref
			s.changed()
			return nil
		}
	}
	return fmt.Errorf("unknown expense %q", expenseID)
}

func (s *Session) SetMileage(km int64) {
	s.mileageKm = &km
	s.changed()
}

func (s *Session) SetFuelLevel(pct int) {
	s.fuelLevelPct = &pct
	s.changed()
}

func (s *Session) SetCondition(c models.VehicleCondition) {
	s.condition = c
	s.changed()
}

func (s *Session) SetChecklist(c models.Checklist) {
	s.checklist = c
	s.changed()
}

func (s *Session) SetNotes(notes string) {
	s.notes = notes
	s.changed()
}

// SetClientSignature stores the client's signature. Bytes stay in memory
// only; the persisted projection keeps the name and a signed flag.
func (s *Session) SetClientSignature(name string, data []byte) {
	s.clientName = name
	s.clientSig = &models.Signature{SignerName: name, Data: data, SignedAt: time.Now()}
	s.changed()
}

// SetDriverSignature stores the driver's signature.
func (s *Session) SetDriverSignature(name string, data []byte) {
	s.driverName = name
	s.driverSig = &models.Signature{SignerName: name, Data: data, SignedAt: time.Now()}
	s.changed()
}
