package tenancy

import "context"

type ctxKey string

const storeKey ctxKey = "booksite.store_id"

// WithStoreID stores the store id in context.
func WithStoreID(ctx context.Context, storeID string) context.Context {
	return context.WithValue(ctx, storeKey, storeID)
}

// StoreIDFromContext extracts the store id if present.
func StoreIDFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(storeKey)
	if val == nil {
		return "", false
	}
	storeID, ok := val.(string)
	return storeID, ok && storeID != ""
}
