package router

import (
	"net/http"
	"strings"

	"github.com/wolfman30/booksite-platform/internal/tenancy"
)

const storeHeader = "X-Store-Id"

// requireStoreID reads the store a booking site speaks for from its header.
func requireStoreID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeID := strings.TrimSpace(r.Header.Get(storeHeader))
		if storeID == "" {
			http.Error(w, `{"error": "missing X-Store-Id"}`, http.StatusBadRequest)
			return
		}
		ctx := tenancy.WithStoreID(r.Context(), storeID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// storeIDFromRequest exposes the store id for local handlers.
func storeIDFromRequest(r *http.Request) (string, bool) {
	return tenancy.StoreIDFromContext(r.Context())
}
