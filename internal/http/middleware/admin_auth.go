package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wolfman30/booksite-platform/internal/tenancy"
)

type contextKey string

const adminClaimsKey contextKey = "adminClaims"

// AllStores in an admin token's stores claim grants access to every store.
const AllStores = "*"

// AdminClaims are the claims of an admin token. Stores lists the store ids
// the holder may manage.
type AdminClaims struct {
	jwt.RegisteredClaims
	Stores []string `json:"stores,omitempty"`
}

// CanManage reports whether the claims grant access to storeID.
func (c AdminClaims) CanManage(storeID string) bool {
	return slices.Contains(c.Stores, AllStores) || slices.Contains(c.Stores, storeID)
}

// AdminJWT enforces a simple HMAC-signed JWT for admin endpoints.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin auth disabled", http.StatusUnauthorized)
				return
			}
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			tokenString := strings.TrimPrefix(auth, "Bearer ")
			claims := AdminClaims{}
			token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), adminClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFromContext returns admin JWT claims if present.
func AdminClaimsFromContext(ctx context.Context) (AdminClaims, bool) {
	claims, ok := ctx.Value(adminClaimsKey).(AdminClaims)
	return claims, ok
}

// RequireStoreAccess checks the {storeID} route parameter against the admin
// claims and records the store in the request context. It must run after
// AdminJWT on a route that declares {storeID}.
func RequireStoreAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeID := chi.URLParam(r, "storeID")
		if storeID == "" {
			http.Error(w, `{"error": "store_id required"}`, http.StatusBadRequest)
			return
		}
		claims, ok := AdminClaimsFromContext(r.Context())
		if !ok || !claims.CanManage(storeID) {
			http.Error(w, `{"error": "forbidden"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(tenancy.WithStoreID(r.Context(), storeID)))
	})
}
