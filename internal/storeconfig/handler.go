package storeconfig

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/customization"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// Handler provides HTTP endpoints for store configuration management.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new store config HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// Routes returns a chi router with store admin routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{storeID}/config", h.GetConfig)
	r.Put("/{storeID}/config", h.UpdateConfig)
	r.Patch("/{storeID}/customization", h.UpdateCustomization)
	return r
}

// GetConfig returns the configuration of a store.
// GET /admin/stores/{storeID}/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if storeID == "" {
		http.Error(w, `{"error": "store_id required"}`, http.StatusBadRequest)
		return
	}

	cfg, err := h.store.Get(r.Context(), storeID)
	if err != nil {
		h.logger.Error("failed to get store config", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	h.writeConfig(w, cfg)
}

// UpdateConfigRequest is the request body for updating store config.
type UpdateConfigRequest struct {
	Name               string                      `json:"name,omitempty"`
	Timezone           string                      `json:"timezone,omitempty"`
	WeeklySlots        *availability.WeeklySlotMap `json:"weekly_slots,omitempty"`
	BookingHorizonDays *int                        `json:"booking_horizon_days,omitempty"`
}

// UpdateConfig creates or updates the configuration of a store.
// PUT /admin/stores/{storeID}/config
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	if storeID == "" {
		http.Error(w, `{"error": "store_id required"}`, http.StatusBadRequest)
		return
	}

	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	cfg, err := h.store.Get(r.Context(), storeID)
	if err != nil {
		h.logger.Error("failed to get store config", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		cfg.Name = req.Name
	}
	if req.Timezone != "" {
		cfg.Timezone = req.Timezone
	}
	if req.WeeklySlots != nil {
		cfg.WeeklySlots = *req.WeeklySlots
	}
	if req.BookingHorizonDays != nil {
		if *req.BookingHorizonDays < 1 || *req.BookingHorizonDays > 366 {
			http.Error(w, `{"error": "booking_horizon_days must be between 1 and 366"}`, http.StatusBadRequest)
			return
		}
		cfg.BookingHorizonDays = *req.BookingHorizonDays
	}

	if !h.save(w, r, cfg) {
		return
	}
	h.logger.Info("store config updated", "store_id", storeID, "timezone", cfg.Timezone)
	h.writeConfig(w, cfg)
}

// UpdateCustomization applies a list of customization updates.
// PATCH /admin/stores/{storeID}/customization
func (h *Handler) UpdateCustomization(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, `{"error": "invalid body"}`, http.StatusBadRequest)
		return
	}
	updates, err := customization.DecodeUpdates(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg, err := h.store.Get(r.Context(), storeID)
	if err != nil {
		h.logger.Error("failed to get store config", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	next, err := customization.ApplyAll(cfg.Customization, updates)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	cfg.Customization = next

	if !h.save(w, r, cfg) {
		return
	}
	h.logger.Info("store customization updated", "store_id", storeID, "updates", len(updates))
	h.writeConfig(w, cfg)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, cfg *Config) bool {
	err := h.store.Set(r.Context(), cfg)
	if err == nil {
		return true
	}
	if errors.Is(err, ErrInvalidTimezone) || errors.Is(err, ErrInvalidContactEmail) ||
		errors.Is(err, availability.ErrInvalidSlot) || errors.Is(err, customization.ErrInvalidColor) {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	h.logger.Error("failed to save store config", "store_id", cfg.StoreID, "error", err)
	http.Error(w, `{"error": "failed to save config"}`, http.StatusInternalServerError)
	return false
}

func (h *Handler) writeConfig(w http.ResponseWriter, cfg *Config) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cfg); err != nil {
		h.logger.Error("failed to encode store config", "store_id", cfg.StoreID, "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
