package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"convoyinspect/internal/agent/capture"
	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/agent/remote"
	"convoyinspect/internal/agent/repositories/progress"
	"convoyinspect/internal/agent/session"
	"convoyinspect/internal/common"
	"convoyinspect/internal/logging"
)

// SessionService is the facade the device UI drives. It owns at most one
// active session, serializes every mutation, hooks the debounced autosave to
// the session's change stream, and runs the recovery protocol on start.
type SessionService struct {
	mu sync.Mutex

	remote   remote.Client
	store    progress.Repository
	capture  capture.Adapter
	docs     *DocumentSaver
	commits  *CommitCoordinator
	log      logging.Logger
	debounce time.Duration

	sess    *session.Session
	saver   *Debouncer
	pending *models.PersistedProgress
}

func NewSessionService(
	rc remote.Client,
	store progress.Repository,
	camera capture.Adapter,
	docs *DocumentSaver,
	commits *CommitCoordinator,
	debounce time.Duration,
	log logging.Logger,
) *SessionService {
	return &SessionService{
		remote:   rc,
		store:    store,
		capture:  camera,
		docs:     docs,
		commits:  commits,
		debounce: debounce,
		log:      log,
	}
}

// Start opens a capture session for the mission. It first verifies that no
// completed inspection of this type exists (the session lock), then checks
// for saved progress. When a snapshot exists the caller must decide between
// Resume and StartFresh before the session becomes usable; resumeAvailable
// reports that state.
func (s *SessionService) Start(ctx context.Context, missionID string, t models.InspectionType) (resumeAvailable bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess != nil && s.sess.Step() != session.StepDone {
		return false, common.ErrSessionActive
	}
	if missionID == "" || !t.Valid() {
		return false, fmt.Errorf("invalid session target: mission=%q type=%q", missionID, t)
	}

	exists, err := s.remote.HasCompletedInspection(ctx, missionID, t)
	if err != nil {
		return false, fmt.Errorf("inspection lock check: %w", err)
	}
	if exists {
		return false, common.ErrInspectionExists
	}

	snap, err := s.store.Load(ctx, missionID, t)
	if err != nil {
		// best-effort store: a read failure means no recovery offer
		s.log.Error(ctx, "failed to load progress snapshot", "mission", missionID, "error", err)
		snap = nil
	}
	if snap != nil {
		s.pending = snap
		return true, nil
	}

	s.attach(session.New(missionID, t))
	return false, nil
}

// Resume rebuilds the session from the saved snapshot: scalars verbatim,
// every capture reset.
func (s *SessionService) Resume(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return common.ErrNoPendingResume
	}
	s.attach(session.Resume(s.pending))
	s.pending = nil
	s.log.Info(ctx, "session resumed from snapshot", "mission", s.sess.MissionID(), "step", s.sess.Step().String())
	return nil
}

// StartFresh discards the saved snapshot and begins from scratch.
func (s *SessionService) StartFresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil {
		return common.ErrNoPendingResume
	}
	missionID, t := s.pending.MissionID, s.pending.InspectionType
	if err := s.store.Clear(ctx, missionID, t); err != nil {
		s.log.Error(ctx, "failed to clear discarded snapshot", "mission", missionID, "error", err)
	}
	s.pending = nil
	s.attach(session.New(missionID, t))
	return nil
}

func (s *SessionService) attach(sess *session.Session) {
	s.sess = sess
	s.saver = NewDebouncer(s.debounce, func() { s.persist() })
	sess.SetOnChange(s.saver.Trigger)
}

// persist writes the current snapshot. The projection is built under the
// service lock so the timer goroutine never reads session state mid-mutation;
// only the store write runs unlocked. Failures are logged and swallowed;
// progress saving is best-effort by design.
func (s *SessionService) persist() {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return
	}
	snap := s.sess.Snapshot()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Save(ctx, snap); err != nil {
		s.log.Error(ctx, "autosave failed", "mission", snap.MissionID, "error", err)
	}
}

// View returns the render projection of the active session.
func (s *SessionService) View() (session.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return session.View{}, common.ErrNoActiveSession
	}
	return s.sess.View(), nil
}

// Next attempts a forward transition and returns the gate result.
func (s *SessionService) Next() (session.Gate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return session.Gate{}, common.ErrNoActiveSession
	}
	return s.sess.Next(), nil
}

// Back moves one step backward.
func (s *SessionService) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return common.ErrNoActiveSession
	}
	s.sess.Back()
	return nil
}

// CaptureRequired invokes the camera for a required slot. A cancelled
// capture is a no-op, not an error.
func (s *SessionService) CaptureRequired(ctx context.Context, slotType string) error {
	return s.captureInto(ctx, capture.KindPhoto, func(ref *models.AssetRef) error {
		return s.sess.CaptureRequired(slotType, ref)
	})
}

// CaptureOptional invokes the camera for an optional slot.
func (s *SessionService) CaptureOptional(ctx context.Context, slotType string) error {
	return s.captureInto(ctx, capture.KindPhoto, func(ref *models.AssetRef) error {
		return s.sess.CaptureOptional(slotType, ref)
	})
}

// CaptureDamage photographs damage with a free-form label.
func (s *SessionService) CaptureDamage(ctx context.Context, label string) error {
	return s.captureInto(ctx, capture.KindPhoto, func(ref *models.AssetRef) error {
		s.sess.AddDamagePhoto(label, ref)
		return nil
	})
}

func (s *SessionService) captureInto(ctx context.Context, kind capture.Kind, apply func(*models.AssetRef) error) error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()
	if sess == nil {
		return common.ErrNoActiveSession
	}

	ref, err := s.capture.Capture(ctx, kind)
	if errors.Is(err, capture.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("capture failed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return apply(ref)
}

// AddDocument starts a scanned document and returns its id.
func (s *SessionService) AddDocument(title string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return "", common.ErrNoActiveSession
	}
	return s.sess.AddDocument(title), nil
}

// CaptureDocumentPage scans one page into a document. The first page of a
// document is early-saved in the background, best-effort.
func (s *SessionService) CaptureDocumentPage(ctx context.Context, docID string) error {
	s.mu.Lock()
	sess := s.sess
	s.mu.Unlock()
	if sess == nil {
		return common.ErrNoActiveSession
	}

	ref, err := s.capture.Capture(ctx, capture.KindScan)
	if errors.Is(err, capture.ErrCancelled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	s.mu.Lock()
	err = sess.AddDocumentPage(docID, *ref)
	firstPage := false
	if err == nil {
		for _, d := range sess.View().Documents {
			if d.ID == docID && d.Pages == 1 {
				firstPage = true
			}
		}
	}
	missionID := sess.MissionID()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if firstPage && s.docs != nil {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if url := s.docs.SaveFirstPage(bg, missionID, docID, *ref); url != "" {
				s.mu.Lock()
				sess.SetDocumentRemoteURL(docID, url)
				s.mu.Unlock()
			}
		}()
	}
	return nil
}

// RemoveDocument drops a document and its scanned pages.
func (s *SessionService) RemoveDocument(docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return common.ErrNoActiveSession
	}
	return s.sess.RemoveDocument(docID)
}

// AddExpense records an expense.
func (s *SessionService) AddExpense(category models.ExpenseCategory, amountCents int64, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return "", common.ErrNoActiveSession
	}
	return s.sess.AddExpense(category, amountCents, description)
}

// RemoveExpense drops an expense.
func (s *SessionService) RemoveExpense(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return common.ErrNoActiveSession
	}
	return s.sess.RemoveExpense(id)
}

// CaptureReceipt photographs a receipt for an expense.
func (s *SessionService) CaptureReceipt(ctx context.Context, expenseID string) error {
	return s.captureInto(ctx, capture.KindReceipt, func(ref *models.AssetRef) error {
		return s.sess.AttachReceipt(expenseID, ref)
	})
}

// UpdateDetails applies the scalar form fields present in the request.
func (s *SessionService) UpdateDetails(mileageKm *int64, fuelLevelPct *int, condition *models.VehicleCondition, checklist *models.Checklist, notes *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return common.ErrNoActiveSession
	}
	if mileageKm != nil {
		s.sess.SetMileage(*mileageKm)
	}
	if fuelLevelPct != nil {
		s.sess.SetFuelLevel(*fuelLevelPct)
	}
	if condition != nil {
		s.sess.SetCondition(*condition)
	}
	if checklist != nil {
		s.sess.SetChecklist(*checklist)
	}
	if notes != nil {
		s.sess.SetNotes(*notes)
	}
	return nil
}

// Sign stores a signature for the given role ("client" or "driver").
func (s *SessionService) Sign(role, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return common.ErrNoActiveSession
	}
	switch role {
	case "client":
		s.sess.SetClientSignature(name, data)
	case "driver":
		s.sess.SetDriverSignature(name, data)
	default:
		return fmt.Errorf("unknown signer role %q", role)
	}
	return nil
}

// Commit runs the commit coordinator against the active session. Any edits
// still inside the debounce window are flushed first; on success the
// autosave loop is shut down with the session. The service lock is held for
// the whole coordinator run: the coordinator reads session state, so
// mutators stay locked out until the commit settles.
func (s *SessionService) Commit(ctx context.Context) (*CommitOutcome, error) {
	s.mu.Lock()
	saver := s.saver
	s.mu.Unlock()
	if saver != nil {
		saver.Flush()
	}

	s.mu.Lock()
	sess := s.sess
	if sess == nil {
		s.mu.Unlock()
		return nil, common.ErrNoActiveSession
	}

	outcome, err := s.commits.Commit(ctx, sess)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}

	sess.SetOnChange(nil)
	s.sess = nil
	s.saver = nil
	s.mu.Unlock()

	// closed after detaching so a late flush finds no session to persist
	if saver != nil {
		saver.Close()
	}
	return outcome, nil
}

// Cancel abandons the active session and deletes its saved progress.
func (s *SessionService) Cancel(ctx context.Context) error {
	s.mu.Lock()
	sess := s.sess
	saver := s.saver
	if sess == nil {
		s.mu.Unlock()
		return common.ErrNoActiveSession
	}
	if err := s.store.Clear(ctx, sess.MissionID(), sess.InspectionType()); err != nil {
		s.log.Error(ctx, "failed to clear snapshot on cancel", "mission", sess.MissionID(), "error", err)
	}
	sess.SetOnChange(nil)
	s.sess = nil
	s.saver = nil
	s.mu.Unlock()

	if saver != nil {
		saver.Close()
	}
	return nil
}

// Close flushes any pending autosave. Called when the capture surface
// unmounts.
func (s *SessionService) Close() {
	s.mu.Lock()
	saver := s.saver
	s.mu.Unlock()
	if saver != nil {
		saver.Flush()
	}
}
