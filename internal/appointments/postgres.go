package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresLedger stores appointments in the relational database. Every
// insert or status change draws a new value from the appointment_revisions
// sequence, so the highest revision of a store doubles as its generation.
type PostgresLedger struct {
	db  DB
	now func() time.Time
}

// NewPostgresLedger creates a ledger backed by a pgx pool or connection.
func NewPostgresLedger(db DB) *PostgresLedger {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresLedger{db: db, now: time.Now}
}

const selectColumns = `id::text, store_id, scheduled_at, COALESCE(legacy_time, ''), status, customer_name, customer_email,
		customer_phone, service_id, service_name, service_price_cents, currency, notes, revision, created_at`

// List returns all appointments of a store ordered by start time.
func (l *PostgresLedger) List(ctx context.Context, storeID string) (*Snapshot, error) {
	if storeID == "" {
		return nil, ErrMissingStore
	}
	rows, err := l.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM appointments
		WHERE store_id = $1
		ORDER BY scheduled_at ASC`, storeID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	snap := &Snapshot{StoreID: storeID, Records: []Record{}, FetchedAt: l.now().UTC()}
	for rows.Next() {
		rec, revision, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		if revision > snap.Generation {
			snap.Generation = revision
		}
		snap.Records = append(snap.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return snap, nil
}

// Create inserts a pending appointment. A concurrent booking of the same
// instant trips the partial unique index and surfaces as ErrSlotTaken.
func (l *PostgresLedger) Create(ctx context.Context, req *CreateRequest) (*Record, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var createdAt time.Time
	err := l.db.QueryRow(ctx, `
		INSERT INTO appointments (id, store_id, scheduled_at, status, customer_name, customer_email, customer_phone,
			service_id, service_name, service_price_cents, currency, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		id, req.StoreID, req.ScheduledAt, string(StatusPending), req.CustomerName, req.CustomerEmail, req.CustomerPhone,
		req.ServiceID, req.ServiceName, req.ServicePriceCents, req.Currency, req.Notes,
	).Scan(&createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("appointments: insert: %w", err)
	}

	return &Record{
		ID:                id.String(),
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
		CreatedAt:         createdAt,
	}, nil
}

// UpdateStatus moves an appointment to a new lifecycle status. The update is
// guarded on the status read beforehand so a concurrent change is reported
// as ErrInvalidTransition instead of being overwritten.
func (l *PostgresLedger) UpdateStatus(ctx context.Context, storeID, id string, status Status) (*Record, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var current string
	err := l.db.QueryRow(ctx, `
		SELECT status FROM appointments WHERE id = $1 AND store_id = $2`, id, storeID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: load status: %w", err)
	}
	if !ValidTransition(Status(current), status) {
		return nil, ErrInvalidTransition
	}

	row := l.db.QueryRow(ctx, `
		UPDATE appointments
		SET status = $1, revision = nextval('appointment_revisions'), updated_at = now()
		WHERE id = $2 AND store_id = $3 AND status = $4
		RETURNING `+selectColumns, string(status), id, storeID, current)
	rec, _, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("appointments: update status: %w", err)
	}
	return &rec, nil
}

func scanRecord(row pgx.Row) (Record, int64, error) {
	var (
		rec         Record
		scheduledAt time.Time
		status      string
		revision    int64
	)
	if err := row.Scan(
		&rec.ID,
		&rec.StoreID,
		&scheduledAt,
		&rec.Time,
		&status,
		&rec.CustomerName,
		&rec.CustomerEmail,
		&rec.CustomerPhone,
		&rec.ServiceID,
		&rec.ServiceName,
		&rec.ServicePriceCents,
		&rec.Currency,
		&rec.Notes,
		&revision,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, 0, err
	}
	rec.Date = scheduledAt.Format(time.RFC3339)
	rec.Status = Status(status)
	return rec, revision, nil
}
