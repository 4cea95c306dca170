package catalog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wolfman30/booksite-platform/pkg/logging"
)

// Handler serves the admin endpoints for a store's services.
type Handler struct {
	catalog Catalog
	logger  *logging.Logger
}

// NewHandler creates a catalog admin handler.
func NewHandler(catalog Catalog, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{catalog: catalog, logger: logger}
}

// Routes mounts under /admin/stores/{storeID}/services.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListServices)
	r.Post("/", h.CreateService)
	r.Get("/{serviceID}", h.GetService)
	return r
}

// ListServices returns every service of the store.
// GET /admin/stores/{storeID}/services
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	services, err := h.catalog.List(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, ErrMissingStore) {
			http.Error(w, `{"error": "store_id required"}`, http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to list services", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"services": services}, h.logger)
}

// GetService returns one service.
// GET /admin/stores/{storeID}/services/{serviceID}
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	svc, err := h.catalog.Get(r.Context(), storeID, chi.URLParam(r, "serviceID"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error": "service not found"}`, http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get service", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, svc, h.logger)
}

// CreateService adds a service to the store.
// POST /admin/stores/{storeID}/services
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	var req CreateServiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	req.StoreID = storeID

	svc, err := h.catalog.Create(r.Context(), &req)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingStore), errors.Is(err, ErrMissingName),
		errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrInvalidPrice):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()}, h.logger)
		return
	default:
		h.logger.Error("failed to create service", "store_id", storeID, "error", err)
		http.Error(w, `{"error": "failed to create service"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("service created", "store_id", storeID, "service_id", svc.ID)
	writeJSON(w, http.StatusCreated, svc, h.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
