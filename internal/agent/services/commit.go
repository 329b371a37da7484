package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/agent/remote"
	"convoyinspect/internal/agent/repositories/progress"
	"convoyinspect/internal/agent/session"
	"convoyinspect/internal/common"
	"convoyinspect/internal/logging"
)

// CommitOutcome is what the UI renders on the final summary screen. The
// three user-visible conditions (saved with asset failures, saved but
// mission not closed) can co-occur; only record creation is all-or-nothing.
type CommitOutcome struct {
	InspectionID    string
	Upload          models.UploadSummary
	MissionClosed   bool
	MissionCloseErr error
}

// Summary renders the outcome as one user-facing line.
func (o *CommitOutcome) Summary() string {
	total := len(o.Upload.Results)
	msg := "inspection saved"
	if total > 0 {
		msg += fmt.Sprintf("; %d/%d assets uploaded", o.Upload.Succeeded, total)
	}
	if o.MissionClosed {
		msg += "; mission closed"
	} else {
		msg += "; mission not closed"
	}
	return msg
}

// CommitCoordinator runs the irreversible transition from local session
// state to a durable remote inspection record. Each step lives in its own
// failure domain:
//
//  1. terminal gate re-check — abort, session unchanged
//  2. inspection record creation — abort on failure, session back at
//     signatures with all data intact
//  3. asset uploads — informational; the record is valid regardless
//  4. mission status update — reported separately, never retried
//  5. local progress cleared once step 2 has succeeded, regardless of 3–4
type CommitCoordinator struct {
	remote  remote.Client
	uploads *UploadOrchestrator
	store   progress.Repository
	log     logging.Logger
}

func NewCommitCoordinator(rc remote.Client, uploads *UploadOrchestrator, store progress.Repository, log logging.Logger) *CommitCoordinator {
	return &CommitCoordinator{remote: rc, uploads: uploads, store: store, log: log}
}

// Commit executes the sequence above. A non-nil error means the inspection
// record does not exist and the whole commit must be retried; once the
// record exists the returned outcome describes any partial failures.
func (c *CommitCoordinator) Commit(ctx context.Context, sess *session.Session) (*CommitOutcome, error) {
	if g := sess.BeginCommit(); !g.OK {
		return nil, fmt.Errorf("commit blocked: %s", g.Reason)
	}

	// commit requires connectivity at call time; there is no offline queue
	if err := c.remote.Ping(ctx); err != nil {
		sess.FailCommit()
		if errors.Is(err, common.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	assets := sess.CapturedAssets()

	inspectionID, err := c.remote.CreateInspection(ctx, buildRecord(sess))
	if err != nil {
		sess.FailCommit()
		return nil, fmt.Errorf("create inspection record: %w", err)
	}
	sess.FinishCommit()
	c.log.Info(ctx, "inspection record created", "inspection", inspectionID, "mission", sess.MissionID())

	outcome := &CommitOutcome{InspectionID: inspectionID}
	outcome.Upload = c.uploads.Run(ctx, inspectionID, assets)

	if err := c.remote.CloseMission(ctx, sess.MissionID(), sess.InspectionType()); err != nil {
		outcome.MissionCloseErr = err
		c.log.Warn(ctx, "mission not closed", "mission", sess.MissionID(), "error", err)
	} else {
		outcome.MissionClosed = true
	}

	if err := c.store.Clear(ctx, sess.MissionID(), sess.InspectionType()); err != nil {
		// best-effort; a stale snapshot falls to garbage collection
		c.log.Error(ctx, "failed to clear progress snapshot", "mission", sess.MissionID(), "error", err)
	}

	return outcome, nil
}

func buildRecord(sess *session.Session) *remote.InspectionRecord {
	sc := sess.Scalars()
	rec := &remote.InspectionRecord{
		MissionID:      sess.MissionID(),
		InspectionType: sess.InspectionType(),
		MileageKm:      sc.MileageKm,
		FuelLevelPct:   sc.FuelLevelPct,
		Condition:      sc.Condition,
		Checklist:      sc.Checklist,
		Notes:          sc.Notes,
		ClientName:     sc.ClientName,
		DriverName:     sc.DriverName,
		PerformedAt:    time.Now().UTC(),
	}
	for _, e := range sess.Expenses() {
		rec.Expenses = append(rec.Expenses, remote.ExpenseRecord{
			ID:          e.ID,
			Category:    e.Category,
			AmountCents: e.AmountCents,
			Description: e.Description,
		})
	}
	return rec
}
