package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger is the persistence boundary for a store's appointments.
type Ledger interface {
	List(ctx context.Context, storeID string) (*Snapshot, error)
	Create(ctx context.Context, req *CreateRequest) (*Record, error)
}

// StatusUpdater changes the lifecycle status of an existing appointment.
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, storeID, id string, status Status) (*Record, error)
}

// InMemoryLedger keeps appointments in process memory. It backs local
// development and tests, and rejects a second non-cancelled booking for the
// same instant the way the Postgres unique index does.
type InMemoryLedger struct {
	mu          sync.RWMutex
	records     map[string][]Record
	generations map[string]int64
	now         func() time.Time
}

// NewInMemoryLedger creates an empty in-memory ledger.
func NewInMemoryLedger() *InMemoryLedger {
	return &InMemoryLedger{
		records:     make(map[string][]Record),
		generations: make(map[string]int64),
		now:         time.Now,
	}
}

// Seed inserts existing records as-is, without validation. Legacy rows with
// date-only values are loaded this way.
func (l *InMemoryLedger) Seed(records ...Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, rec := range records {
		l.records[rec.StoreID] = append(l.records[rec.StoreID], rec)
		l.generations[rec.StoreID]++
	}
}

// List returns a copy of the store's appointments.
func (l *InMemoryLedger) List(ctx context.Context, storeID string) (*Snapshot, error) {
	if storeID == "" {
		return nil, ErrMissingStore
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	records := make([]Record, len(l.records[storeID]))
	copy(records, l.records[storeID])
	sort.SliceStable(records, func(i, j int) bool { return records[i].Date < records[j].Date })

	return &Snapshot{
		StoreID:    storeID,
		Generation: l.generations[storeID],
		Records:    records,
		FetchedAt:  l.now().UTC(),
	}, nil
}

// Create stores a new pending appointment.
func (l *InMemoryLedger) Create(ctx context.Context, req *CreateRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	loc := req.ScheduledAt.Location()
	wantDay, wantSlot := req.ScheduledAt.Format("2006-01-02"), req.ScheduledAt.Format("15:04")
	for _, existing := range l.records[req.StoreID] {
		if !existing.Status.Occupying() {
			continue
		}
		day, slot, ok := existing.LocalStart(loc)
		if ok && day == wantDay && slot == wantSlot {
			return nil, ErrSlotTaken
		}
	}

	rec := Record{
		ID:                uuid.New().String(),
		StoreID:           req.StoreID,
		Date:              req.ScheduledAt.Format(time.RFC3339),
		Status:            StatusPending,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		ServiceID:         req.ServiceID,
		ServiceName:       req.ServiceName,
		ServicePriceCents: req.ServicePriceCents,
		Currency:          req.Currency,
		Notes:             req.Notes,
		CreatedAt:         l.now().UTC(),
	}
	l.records[req.StoreID] = append(l.records[req.StoreID], rec)
	l.generations[req.StoreID]++
	return &rec, nil
}

// UpdateStatus applies a lifecycle transition.
func (l *InMemoryLedger) UpdateStatus(ctx context.Context, storeID, id string, status Status) (*Record, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.records[storeID] {
		rec := &l.records[storeID][i]
		if rec.ID != id {
			continue
		}
		if !ValidTransition(rec.Status, status) {
			return nil, ErrInvalidTransition
		}
		rec.Status = status
		l.generations[storeID]++
		out := *rec
		return &out, nil
	}
	return nil, ErrNotFound
}
