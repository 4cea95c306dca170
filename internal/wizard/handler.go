package wizard

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/booking"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// Handler exposes wizard sessions over HTTP.
type Handler struct {
	registry *Registry
	logger   *logging.Logger
}

// NewHandler creates a wizard HTTP handler.
func NewHandler(registry *Registry, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{registry: registry, logger: logger}
}

// Routes returns the session routes, mounted at /wizard.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{sessionID}", h.GetSession)
	r.Delete("/{sessionID}", h.CloseSession)
	r.Post("/{sessionID}/open", h.Reopen)
	r.Post("/{sessionID}/service", h.SelectService)
	r.Post("/{sessionID}/date", h.SelectDate)
	r.Post("/{sessionID}/time", h.SelectTime)
	r.Post("/{sessionID}/details", h.SetDetails)
	r.Post("/{sessionID}/submit", h.Submit)
	r.Post("/{sessionID}/back", h.GoBack)
	r.Post("/{sessionID}/month", h.ChangeMonth)
	r.Post("/{sessionID}/refresh", h.Refresh)
	return r
}

// OpenForStore starts a new session.
// POST /stores/{storeID}/wizard
func (h *Handler) OpenForStore(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if storeID == "" {
		http.Error(w, `{"error": "store_id required"}`, http.StatusBadRequest)
		return
	}
	sess, err := h.registry.Open(r.Context(), storeID)
	if err != nil {
		h.respond(w, sess, err)
		return
	}
	h.writeView(w, http.StatusCreated, sess.View(), nil)
}

// GetSession returns the current view.
// GET /wizard/{sessionID}
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, nil)
}

// CloseSession closes the wizard.
// DELETE /wizard/{sessionID}
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Close(chi.URLParam(r, "sessionID")); err != nil {
		http.Error(w, `{"error": "session not found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reopen reloads the session for its store, or for another store when a
// store_id is given.
// POST /wizard/{sessionID}/open
func (h *Handler) Reopen(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		StoreID string `json:"store_id"`
	}
	if !decodeOptional(w, r, &req) {
		return
	}
	storeID := req.StoreID
	if storeID == "" {
		storeID = sess.View().StoreID
	}
	h.respond(w, sess, sess.Open(r.Context(), storeID))
}

// SelectService picks a service.
// POST /wizard/{sessionID}/service
func (h *Handler) SelectService(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ServiceID string `json:"service_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, sess, sess.SelectService(req.ServiceID))
}

// SelectDate picks a date.
// POST /wizard/{sessionID}/date
func (h *Handler) SelectDate(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Date availability.CalendarDate `json:"date"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, sess, sess.SelectDate(req.Date))
}

// SelectTime picks a time slot.
// POST /wizard/{sessionID}/time
func (h *Handler) SelectTime(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Time string `json:"time"`
	}
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, sess, sess.SelectTime(req.Time))
}

type detailsRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (d detailsRequest) customer() booking.Customer {
	return booking.Customer{Name: d.Name, Email: d.Email, Phone: d.Phone}
}

// SetDetails stores customer details.
// POST /wizard/{sessionID}/details
func (h *Handler) SetDetails(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req detailsRequest
	if !decode(w, r, &req) {
		return
	}
	h.respond(w, sess, sess.SetDetails(req.customer(), req.Notes))
}

// Submit books the appointment. A body with details replaces the stored ones first.
// POST /wizard/{sessionID}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req *detailsRequest
	if !decodeOptional(w, r, &req) {
		return
	}
	if req != nil {
		if err := sess.SetDetails(req.customer(), req.Notes); err != nil {
			h.respond(w, sess, err)
			return
		}
	}
	_, err := sess.Submit(r.Context())
	h.respond(w, sess, err)
}

// GoBack returns to the previous step.
// POST /wizard/{sessionID}/back
func (h *Handler) GoBack(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, sess.GoBack())
}

// ChangeMonth moves the date picker.
// POST /wizard/{sessionID}/month {"direction": "next"|"prev"}
func (h *Handler) ChangeMonth(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Direction string `json:"direction"`
	}
	if !decode(w, r, &req) {
		return
	}
	switch req.Direction {
	case "next":
		h.respond(w, sess, sess.NextMonth())
	case "prev":
		h.respond(w, sess, sess.PrevMonth())
	default:
		http.Error(w, `{"error": "direction must be next or prev"}`, http.StatusBadRequest)
	}
}

// Refresh fetches a newer appointment snapshot.
// POST /wizard/{sessionID}/refresh
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.respond(w, sess, sess.Refresh(r.Context()))
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	sess, err := h.registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		http.Error(w, `{"error": "session not found"}`, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return false
	}
	return true
}

func decodeOptional(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
	return false
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrTransientIO):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrSessionClosed):
		return http.StatusGone
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrDateNotSelectable),
		errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrUnknownService),
		errors.Is(err, ErrSubmitInProgress), errors.Is(err, ErrStaleResponse),
		errors.Is(err, booking.ErrSlotTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (h *Handler) respond(w http.ResponseWriter, sess *Session, err error) {
	var view View
	if sess != nil {
		view = sess.View()
	}
	h.writeView(w, statusFor(err), view, err)
}

func (h *Handler) writeView(w http.ResponseWriter, status int, view View, err error) {
	if err != nil {
		view.Error = userMessage(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(view); encErr != nil {
		h.logger.Error("failed to encode wizard view", "session_id", view.SessionID, "error", encErr)
	}
}
