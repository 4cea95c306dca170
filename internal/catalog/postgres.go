package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresCatalog persists services in the services table.
type PostgresCatalog struct {
	db DB
}

// NewPostgresCatalog creates a catalog backed by a pgx pool.
func NewPostgresCatalog(db DB) *PostgresCatalog {
	if db == nil {
		panic("catalog: db required")
	}
	return &PostgresCatalog{db: db}
}

const serviceColumns = `id::text, store_id, name, description, duration_minutes, price_cents, currency, created_at`

// List returns the active services of a store ordered by name.
func (c *PostgresCatalog) List(ctx context.Context, storeID string) ([]Service, error) {
	if storeID == "" {
		return nil, ErrMissingStore
	}
	rows, err := c.db.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE store_id = $1 AND archived_at IS NULL
		ORDER BY name ASC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	services := []Service{}
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: list rows: %w", err)
	}
	return services, nil
}

func (c *PostgresCatalog) Get(ctx context.Context, storeID, id string) (*Service, error) {
	svc, err := scanService(c.db.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE store_id = $1 AND id::text = $2`, storeID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("catalog: get: %w", err)
	}
	return &svc, nil
}

func (c *PostgresCatalog) Create(ctx context.Context, req *CreateServiceRequest) (*Service, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	var createdAt time.Time
	err := c.db.QueryRow(ctx, `
		INSERT INTO services (id, store_id, name, description, duration_minutes, price_cents, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		id, req.StoreID, req.Name, req.Description, req.DurationMinutes, req.PriceCents, req.Currency,
	).Scan(&createdAt)
	if err != nil {
		return nil, fmt.Errorf("catalog: insert: %w", err)
	}
	return &Service{
		ID:              id.String(),
		StoreID:         req.StoreID,
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Currency:        req.Currency,
		CreatedAt:       createdAt,
	}, nil
}

func scanService(row pgx.Row) (Service, error) {
	var svc Service
	err := row.Scan(
		&svc.ID,
		&svc.StoreID,
		&svc.Name,
		&svc.Description,
		&svc.DurationMinutes,
		&svc.PriceCents,
		&svc.Currency,
		&svc.CreatedAt,
	)
	return svc, err
}
