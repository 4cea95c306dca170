package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/booksite-platform/internal/appointments"
	"github.com/wolfman30/booksite-platform/internal/availability"
	"github.com/wolfman30/booksite-platform/internal/observability/metrics"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// AvailabilityHandler serves the public slot lookups of a store.
type AvailabilityHandler struct {
	configs storeconfig.Provider
	ledger  appointments.Ledger
	clock   availability.Clock
	metrics *metrics.BookingMetrics
	logger  *logging.Logger
}

// DaySlotView is the resolved availability of one calendar date.
type DaySlotView struct {
	StoreID          string                     `json:"store_id"`
	Timezone         string                     `json:"timezone"`
	Date             *availability.CalendarDate `json:"date"`
	Selectable       bool                       `json:"selectable"`
	Slots            []string                   `json:"slots"`
	LedgerGeneration int64                      `json:"ledger_generation"`
}

// NewAvailabilityHandler creates the availability handler. A nil clock means
// the system clock.
func NewAvailabilityHandler(configs storeconfig.Provider, ledger appointments.Ledger, clock availability.Clock, m *metrics.BookingMetrics, logger *logging.Logger) *AvailabilityHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if clock == nil {
		clock = availability.SystemClock
	}
	return &AvailabilityHandler{
		configs: configs,
		ledger:  ledger,
		clock:   clock,
		metrics: m,
		logger:  logger,
	}
}

// Routes returns a chi router meant to be mounted at
// /stores/{storeID}/availability.
func (h *AvailabilityHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDay)
	r.Get("/next", h.GetNext)
	return r
}

// GetDay returns the free slots of one date.
// GET /stores/{storeID}/availability?date=YYYY-MM-DD
//
// Dates in the past or on weekdays without configured slots come back with
// selectable=false and no slots.
func (h *AvailabilityHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if storeID == "" {
		jsonError(w, "store_id required", http.StatusBadRequest)
		return
	}
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		jsonError(w, "date query parameter required", http.StatusBadRequest)
		return
	}
	date, err := availability.ParseDate(raw)
	if err != nil {
		jsonError(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	cfg, loc, ok := h.loadConfig(r.Context(), w, storeID)
	if !ok {
		return
	}
	view := DaySlotView{StoreID: storeID, Timezone: cfg.Timezone, Date: &date, Slots: []string{}}
	today := availability.Today(h.clock, loc)
	if !availability.IsSelectable(date, today, cfg.WeeklySlots) {
		writeJSON(w, http.StatusOK, view)
		return
	}

	snap, ok := h.loadSnapshot(r.Context(), w, storeID)
	if !ok {
		return
	}
	view.Selectable = true
	view.LedgerGeneration = snap.Generation
	view.Slots = h.resolve(&date, cfg.WeeklySlots, snap.Records, loc)
	writeJSON(w, http.StatusOK, view)
}

// GetNext returns the first date within the store's booking horizon whose
// weekday has configured slots, resolved against the ledger. Date is null
// when there is none.
// GET /stores/{storeID}/availability/next
func (h *AvailabilityHandler) GetNext(w http.ResponseWriter, r *http.Request) {
	storeID := strings.TrimSpace(chi.URLParam(r, "storeID"))
	if storeID == "" {
		jsonError(w, "store_id required", http.StatusBadRequest)
		return
	}
	cfg, loc, ok := h.loadConfig(r.Context(), w, storeID)
	if !ok {
		return
	}

	view := DaySlotView{StoreID: storeID, Timezone: cfg.Timezone, Slots: []string{}}
	next, found := availability.FindNext(cfg.WeeklySlots, cfg.HorizonDays(), availability.Today(h.clock, loc))
	if !found {
		writeJSON(w, http.StatusOK, view)
		return
	}

	snap, ok := h.loadSnapshot(r.Context(), w, storeID)
	if !ok {
		return
	}
	view.Date = &next
	view.Selectable = true
	view.LedgerGeneration = snap.Generation
	view.Slots = h.resolve(&next, cfg.WeeklySlots, snap.Records, loc)
	writeJSON(w, http.StatusOK, view)
}

func (h *AvailabilityHandler) resolve(date *availability.CalendarDate, slots availability.WeeklySlotMap, records []appointments.Record, loc *time.Location) []string {
	start := time.Now()
	free := availability.Resolve(date, slots, records, loc)
	h.metrics.ObserveResolve("http", time.Since(start).Seconds())
	return free
}

func (h *AvailabilityHandler) loadConfig(ctx context.Context, w http.ResponseWriter, storeID string) (*storeconfig.Config, *time.Location, bool) {
	cfg, err := h.configs.Get(ctx, storeID)
	if err != nil {
		h.logger.Error("failed to load store config", "store_id", storeID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return nil, nil, false
	}
	loc, err := cfg.Location()
	if err != nil {
		h.logger.Error("store has an invalid timezone", "store_id", storeID, "timezone", cfg.Timezone, "error", err)
		jsonError(w, "store timezone misconfigured", http.StatusInternalServerError)
		return nil, nil, false
	}
	return cfg, loc, true
}

func (h *AvailabilityHandler) loadSnapshot(ctx context.Context, w http.ResponseWriter, storeID string) (*appointments.Snapshot, bool) {
	snap, err := h.ledger.List(ctx, storeID)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, false
		}
		h.logger.Warn("failed to list appointments", "store_id", storeID, "error", err)
		jsonError(w, "appointments unavailable, try again", http.StatusServiceUnavailable)
		return nil, false
	}
	return snap, true
}
