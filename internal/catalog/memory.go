package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCatalog keeps services in process memory, for development and tests.
type InMemoryCatalog struct {
	mu       sync.RWMutex
	services map[string][]Service
}

// NewInMemoryCatalog returns an empty catalog.
func NewInMemoryCatalog() *InMemoryCatalog {
	return &InMemoryCatalog{services: make(map[string][]Service)}
}

// Seed adds services as-is.
func (c *InMemoryCatalog) Seed(services ...Service) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, svc := range services {
		c.services[svc.StoreID] = append(c.services[svc.StoreID], svc)
	}
}

func (c *InMemoryCatalog) List(ctx context.Context, storeID string) ([]Service, error) {
	if storeID == "" {
		return nil, ErrMissingStore
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Service, len(c.services[storeID]))
	copy(out, c.services[storeID])
	return out, nil
}

func (c *InMemoryCatalog) Get(ctx context.Context, storeID, id string) (*Service, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, svc := range c.services[storeID] {
		if svc.ID == id {
			found := svc
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

func (c *InMemoryCatalog) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	svc := Service{
		ID:              uuid.New().String(),
		StoreID:         req.StoreID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Currency:        req.Currency,
		CreatedAt:       time.Now().UTC(),
	}
	c.mu.Lock()
	c.services[req.StoreID] = append(c.services[req.StoreID], svc)
	c.mu.Unlock()
	return &svc, nil
}
