// Package api exposes the capture session over a localhost HTTP surface for
// the device UI.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"convoyinspect/internal/agent/models"
	"convoyinspect/internal/agent/services"
	"convoyinspect/internal/common"
	"convoyinspect/internal/logging"
)

type Handler struct {
	sessions *services.SessionService
	log      logging.Logger
}

func NewHandler(sessions *services.SessionService, log logging.Logger) *Handler {
	return &Handler{sessions: sessions, log: log}
}

func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", h.healthz)
	r.Route("/v1/session", func(r chi.Router) {
		r.Post("/", h.startSession)
		r.Get("/", h.getSession)
		r.Post("/resume", h.resumeSession)
		r.Post("/fresh", h.startFresh)
		r.Post("/cancel", h.cancelSession)
		r.Post("/next", h.next)
		r.Post("/back", h.back)
		r.Put("/details", h.updateDetails)
		r.Post("/photos/{slotType}", h.captureRequired)
		r.Post("/photos/optional/{slotType}", h.captureOptional)
		r.Post("/damages", h.captureDamage)
		r.Post("/documents", h.addDocument)
		r.Post("/documents/{docID}/pages", h.captureDocumentPage)
		r.Delete("/documents/{docID}", h.removeDocument)
		r.Post("/expenses", h.addExpense)
		r.Delete("/expenses/{expenseID}", h.removeExpense)
		r.Post("/expenses/{expenseID}/receipt", h.captureReceipt)
		r.Post("/signatures/{role}", h.sign)
		r.Post("/commit", h.commit)
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MissionID      string                `json:"mission_id"`
		InspectionType models.InspectionType `json:"inspection_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}

	resumeAvailable, err := h.sessions.Start(r.Context(), req.MissionID, req.InspectionType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"resume_available": resumeAvailable})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	v, err := h.sessions.View()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *Handler) resumeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Resume(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) startFresh(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.StartFresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) cancelSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Cancel(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (h *Handler) next(w http.ResponseWriter, r *http.Request) {
	gate, err := h.sessions.Next()
	if err != nil {
		writeError(w, err)
		return
	}
	if !gate.OK {
		writeJSON(w, http.StatusConflict, map[string]any{"advanced": false, "reason": gate.Reason})
		return
	}
	h.getSession(w, r)
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Back(); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) updateDetails(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MileageKm    *int64                   `json:"mileage_km"`
		FuelLevelPct *int                     `json:"fuel_level_pct"`
		Condition    *models.VehicleCondition `json:"condition"`
		Checklist    *models.Checklist        `json:"checklist"`
		Notes        *string                  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.sessions.UpdateDetails(req.MileageKm, req.FuelLevelPct, req.Condition, req.Checklist, req.Notes); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) captureRequired(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CaptureRequired(r.Context(), chi.URLParam(r, "slotType")); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) captureOptional(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CaptureOptional(r.Context(), chi.URLParam(r, "slotType")); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) captureDamage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.sessions.CaptureDamage(r.Context(), req.Label); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) addDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.sessions.AddDocument(req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) captureDocumentPage(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CaptureDocumentPage(r.Context(), chi.URLParam(r, "docID")); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) removeDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RemoveDocument(chi.URLParam(r, "docID")); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) addExpense(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category    models.ExpenseCategory `json:"category"`
		AmountCents int64                  `json:"amount_cents"`
		Description string                 `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	id, err := h.sessions.AddExpense(req.Category, req.AmountCents, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *Handler) removeExpense(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.RemoveExpense(chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) captureReceipt(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CaptureReceipt(r.Context(), chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) sign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
		Data []byte `json:"data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := h.sessions.Sign(chi.URLParam(r, "role"), req.Name, req.Data); err != nil {
		writeError(w, err)
		return
	}
	h.getSession(w, r)
}

func (h *Handler) commit(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.sessions.Commit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"inspection_id":   outcome.InspectionID,
		"assets_uploaded": outcome.Upload.Succeeded,
		"assets_failed":   outcome.Upload.Failed,
		"mission_closed":  outcome.MissionClosed,
		"summary":         outcome.Summary(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrNoActiveSession), errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrInspectionExists), errors.Is(err, common.ErrSessionActive):
		status = http.StatusConflict
	case errors.Is(err, common.ErrNoPendingResume):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, common.ErrUnauthorized):
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
