package handlers

import (
	"net/http"

	"github.com/wolfman30/booksite-platform/internal/catalog"
	"github.com/wolfman30/booksite-platform/internal/customization"
	"github.com/wolfman30/booksite-platform/internal/storeconfig"
	"github.com/wolfman30/booksite-platform/internal/tenancy"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// StorefrontHandler serves the read-only data a booking site renders. The
// store comes from the request context, set by the router from X-Store-Id.
type StorefrontHandler struct {
	catalog catalog.Catalog
	configs storeconfig.Provider
	logger  *logging.Logger
}

// StorefrontResponse is the public face of a store's configuration.
type StorefrontResponse struct {
	StoreID            string                           `json:"store_id"`
	Name               string                           `json:"name"`
	Timezone           string                           `json:"timezone"`
	BookingHorizonDays int                              `json:"booking_horizon_days"`
	Bookable           bool                             `json:"bookable"`
	Customization      customization.StoreCustomization `json:"customization"`
}

// NewStorefrontHandler creates the storefront handler.
func NewStorefrontHandler(c catalog.Catalog, configs storeconfig.Provider, logger *logging.Logger) *StorefrontHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StorefrontHandler{catalog: c, configs: configs, logger: logger}
}

// GetStorefront returns the store's name, zone and site customization.
// GET /storefront
func (h *StorefrontHandler) GetStorefront(w http.ResponseWriter, r *http.Request) {
	storeID, ok := tenancy.StoreIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing store", http.StatusBadRequest)
		return
	}
	cfg, err := h.configs.Get(r.Context(), storeID)
	if err != nil {
		h.logger.Error("failed to load store config", "store_id", storeID, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, StorefrontResponse{
		StoreID:            storeID,
		Name:               cfg.Name,
		Timezone:           cfg.Timezone,
		BookingHorizonDays: cfg.HorizonDays(),
		Bookable:           cfg.WeeklySlots.HasAnySlots(),
		Customization:      cfg.Customization,
	})
}

// ListServices returns the bookable services of the store.
// GET /storefront/services
func (h *StorefrontHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	storeID, ok := tenancy.StoreIDFromContext(r.Context())
	if !ok {
		jsonError(w, "missing store", http.StatusBadRequest)
		return
	}
	services, err := h.catalog.List(r.Context(), storeID)
	if err != nil {
		h.logger.Warn("failed to list services", "store_id", storeID, "error", err)
		jsonError(w, "services unavailable, try again", http.StatusServiceUnavailable)
		return
	}
	if services == nil {
		services = []catalog.Service{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services})
}
