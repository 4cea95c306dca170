package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// Handler serves the admin view of a store's appointments.
type Handler struct {
	ledger Ledger
	logger *logging.Logger
}

// NewHandler creates an appointments admin handler. Status changes are only
// available when ledger also implements StatusUpdater.
func NewHandler(ledger Ledger, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{ledger: ledger, logger: logger}
}

// Routes mounts under /admin/stores/{storeID}/appointments.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAppointments)
	r.Patch("/{appointmentID}/status", h.UpdateStatus)
	return r
}

// ListAppointments returns the store's appointments, optionally filtered by
// status.
// GET /admin/stores/{storeID}/appointments?status=pending
func (h *Handler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	filter := Status(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status"))))
	if filter != "" && !filter.Valid() {
		http.Error(w, `{"error": "invalid status filter"}`, http.StatusBadRequest)
		return
	}

	snap, err := h.ledger.List(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, ErrMissingStore) {
			http.Error(w, `{"error": "store_id required"}`, http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to list appointments", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	records := snap.Records
	if filter != "" {
		records = make([]Record, 0, len(snap.Records))
		for _, rec := range snap.Records {
			if rec.Status == filter {
				records = append(records, rec)
			}
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"appointments": records,
		"generation":   snap.Generation,
	})
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

// UpdateStatus moves an appointment along its lifecycle.
// PATCH /admin/stores/{storeID}/appointments/{appointmentID}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	id := chi.URLParam(r, "appointmentID")

	updater, ok := h.ledger.(StatusUpdater)
	if !ok {
		http.Error(w, `{"error": "status updates not supported"}`, http.StatusNotImplemented)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	rec, err := updater.UpdateStatus(r.Context(), storeID, id, req.Status)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidStatus):
		http.Error(w, `{"error": "invalid status"}`, http.StatusBadRequest)
		return
	case errors.Is(err, ErrNotFound):
		http.Error(w, `{"error": "appointment not found"}`, http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, `{"error": "status transition not allowed"}`, http.StatusConflict)
		return
	case errors.Is(err, ErrStatusUpdatesUnsupported):
		http.Error(w, `{"error": "status updates not supported"}`, http.StatusNotImplemented)
		return
	default:
		h.logger.Error("failed to update appointment status", "store_id", storeID, "appointment_id", id, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("appointment status updated", "store_id", storeID, "appointment_id", id, "status", rec.Status)
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
