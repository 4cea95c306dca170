package catalog

import (
	"context"
	"strings"
	"time"
)

// DefaultCurrency is used when a service is created without one.
const DefaultCurrency = "USD"

// Service is a bookable offering of a store.
type Service struct {
	ID              string    `json:"id"`
	StoreID         string    `json:"store_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration"`
	PriceCents      int64     `json:"price_cents"`
	Currency        string    `json:"currency"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreateServiceRequest carries the fields of a new service.
type CreateServiceRequest struct {
	StoreID         string `json:"-"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration"`
	PriceCents      int64  `json:"price_cents"`
	Currency        string `json:"currency"`
}

// Validate trims the request and checks required fields.
func (r *CreateServiceRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Currency = strings.ToUpper(strings.TrimSpace(r.Currency))
	if r.StoreID == "" {
		return ErrMissingStore
	}
	if r.Name == "" {
		return ErrMissingName
	}
	if r.DurationMinutes <= 0 {
		return ErrInvalidDuration
	}
	if r.PriceCents < 0 {
		return ErrInvalidPrice
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	return nil
}

// Catalog lists and manages the services of a store. An empty list is a
// normal result for a store that has not configured any services yet.
type Catalog interface {
	List(ctx context.Context, storeID string) ([]Service, error)
	Get(ctx context.Context, storeID, id string) (*Service, error)
	Create(ctx context.Context, req *CreateServiceRequest) (*Service, error)
}
