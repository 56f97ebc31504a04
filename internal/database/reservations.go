package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"helmsman/internal/models"
)

const reservationColumns = `
	id, yacht_id, start_datetime, end_datetime, status, kind,
	customer_name, customer_email, customer_phone,
	total_value, deposit_amount, guest_count, notes,
	created_at, updated_at, version`

// CreateReservation persists a new reservation, assigning its ID and audit
// fields.
func (d *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.Version = 1
	if r.Kind == "" {
		r.Kind = models.KindCharter
	}

	_, err := d.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.YachtID, r.Start, r.End, string(r.Status), string(r.Kind),
		r.CustomerName, r.CustomerEmail, r.CustomerPhone,
		r.TotalValue, r.DepositAmount, r.GuestCount, r.Notes,
		r.CreatedAt, r.UpdatedAt, r.Version)
	return err
}

// GetReservation loads one reservation by ID.
func (d *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	row := d.QueryRowContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	r, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// ListReservationsForYacht returns every reservation of one yacht, the
// snapshot handed to the conflict engine.
func (d *DB) ListReservationsForYacht(ctx context.Context, yachtID string) ([]*models.Reservation, error) {
	return d.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE yacht_id = ?
		ORDER BY start_datetime`, yachtID)
}

// ListReservationsInRange returns reservations across the whole fleet whose
// interval intersects [start, end).
func (d *DB) ListReservationsInRange(ctx context.Context, start, end time.Time) ([]*models.Reservation, error) {
	return d.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations
		WHERE start_datetime < ? AND end_datetime > ?
		ORDER BY yacht_id, start_datetime`, end, start)
}

// UpdateReservationStatus transitions a reservation's status guarded by the
// optimistic version. Returns ErrConcurrentModification when the version has
// moved on.
func (d *DB) UpdateReservationStatus(ctx context.Context, id string, version int64, status models.Status) error {
	res, err := d.ExecContext(ctx, `
		UPDATE reservations
		SET status = ?, updated_at = ?, version = version + 1
		WHERE id = ? AND version = ?`,
		string(status), time.Now().UTC(), id, version)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the row is gone or someone got there first.
		if _, getErr := d.GetReservation(ctx, id); getErr != nil {
			return getErr
		}
		return ErrConcurrentModification
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var r models.Reservation
	var status, kind string
	err := row.Scan(
		&r.ID, &r.YachtID, &r.Start, &r.End, &status, &kind,
		&r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
		&r.TotalValue, &r.DepositAmount, &r.GuestCount, &r.Notes,
		&r.CreatedAt, &r.UpdatedAt, &r.Version)
	if err != nil {
		return nil, err
	}
	r.Status = models.Status(status)
	r.Kind = models.Kind(kind)
	return &r, nil
}

func (d *DB) queryReservations(ctx context.Context, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := d.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
